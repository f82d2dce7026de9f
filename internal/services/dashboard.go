package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
)

type DashboardService struct {
	db    *gorm.DB
	stats *StatisticsService
}

func NewDashboardService(db *gorm.DB, stats *StatisticsService) *DashboardService {
	return &DashboardService{db: db, stats: stats}
}

type CategoryStats struct {
	Category     string `json:"category"`
	Color        string `json:"color"`
	ProjectCount int64  `json:"project_count"`
}

type VintageStats struct {
	Vintage  string `json:"vintage"`
	Quantity int64  `json:"quantity"`
}

type DashboardResponse struct {
	Stats          *models.Statistics   `json:"stats"`
	CategoryStats  []CategoryStats      `json:"category_stats"`
	VintageStats   []VintageStats       `json:"vintage_stats"`
	RecentActivity []models.ActivityLog `json:"recent_activity"`
}

// GetOverview assembles the dashboard: the recomputed counters, per-category
// and per-vintage breakdowns, and the latest activity entries.
func (s *DashboardService) GetOverview() (*DashboardResponse, error) {
	snapshot, err := s.stats.Recompute()
	if err != nil {
		return nil, err
	}

	var categoryStats []CategoryStats
	s.db.Model(&models.Project{}).
		Select("projects.category, COUNT(*) as project_count, COALESCE(project_categories.color, '') as color").
		Joins("LEFT JOIN project_categories ON project_categories.name = projects.category").
		Where("projects.deleted_at IS NULL").
		Group("projects.category, project_categories.color").
		Order("project_count DESC").
		Scan(&categoryStats)

	var vintageStats []VintageStats
	s.db.Model(&models.CarbonCredit{}).
		Select("vintage, COALESCE(SUM(quantity), 0) as quantity").
		Group("vintage").
		Order("vintage").
		Scan(&vintageStats)

	var recent []models.ActivityLog
	s.db.Order("created_at DESC, id DESC").Limit(10).Find(&recent)

	return &DashboardResponse{
		Stats:          snapshot,
		CategoryStats:  categoryStats,
		VintageStats:   vintageStats,
		RecentActivity: recent,
	}, nil
}

// GeoJSON shapes for the map view.
type GeoFeature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type GeoFeatureCollection struct {
	Type     string       `json:"type"`
	Features []GeoFeature `json:"features"`
}

// GetMapFeatures returns all located projects as a GeoJSON FeatureCollection
// with category color and status in the feature properties.
func (s *DashboardService) GetMapFeatures() (*GeoFeatureCollection, error) {
	var projects []models.Project
	if err := s.db.Where("location IS NOT NULL").Find(&projects).Error; err != nil {
		return nil, err
	}

	colors := map[string]string{}
	var categories []models.ProjectCategory
	s.db.Find(&categories)
	for _, c := range categories {
		colors[c.Name] = c.Color
	}

	collection := &GeoFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoFeature, 0, len(projects)),
	}

	for _, p := range projects {
		if len(p.Location) == 0 {
			continue
		}
		collection.Features = append(collection.Features, GeoFeature{
			Type:     "Feature",
			Geometry: json.RawMessage(p.Location),
			Properties: map[string]interface{}{
				"project_id":          p.ProjectID,
				"name":                p.Name,
				"category":            p.Category,
				"status":              p.Status,
				"country":             p.Country,
				"estimated_reduction": p.EstimatedReduction,
				"color":               colors[p.Category],
			},
		})
	}

	return collection, nil
}
