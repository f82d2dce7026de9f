package services

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/apperrors"
	"gorm.io/gorm"
)

func newCreditFixture(t *testing.T) (*CreditService, *gorm.DB, *models.Project, *models.User) {
	t.Helper()

	db := setupTestDB(t)
	seedCategory(t, db, "Forestry")
	dev := seedUser(t, db, "dev1", models.RoleProjectDeveloper)

	projects := NewProjectService(db, "KEN")
	project := seedProject(t, db, projects, dev.ID)

	svc := NewCreditService(db, nil)
	return svc, db, project, dev
}

func TestIssueCredits_NonPositiveQuantity(t *testing.T) {
	svc, db, project, dev := newCreditFixture(t)

	for _, quantity := range []int{0, -1, -100} {
		_, err := svc.Issue(&IssueCreditsRequest{
			ProjectID: project.ProjectID,
			Vintage:   "2023",
			Quantity:  quantity,
			OwnerID:   dev.ID,
		}, dev.ID)
		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("quantity %d: expected validation error, got %v", quantity, err)
		}
	}

	// Nothing may be persisted by the failed calls
	var count int64
	db.Model(&models.CarbonCredit{}).Count(&count)
	if count != 0 {
		t.Errorf("persisted %d credits, expected 0", count)
	}
	db.Model(&models.CreditEvent{}).Count(&count)
	if count != 0 {
		t.Errorf("persisted %d credit events, expected 0", count)
	}
}

func TestIssueCredits_MissingFields(t *testing.T) {
	svc, _, project, dev := newCreditFixture(t)

	cases := []IssueCreditsRequest{
		{Vintage: "2023", Quantity: 10, OwnerID: dev.ID},
		{ProjectID: project.ProjectID, Quantity: 10, OwnerID: dev.ID},
	}
	for i, req := range cases {
		if _, err := svc.Issue(&req, dev.ID); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestIssueCredits_SerialNumberFormat(t *testing.T) {
	svc, db, _, dev := newCreditFixture(t)

	// Fixed business key so the expected pattern is literal
	db.Model(&models.Project{}).Where("developer_id = ?", dev.ID).
		Update("project_id", "KEN-2023-0045")

	credit, err := svc.Issue(&IssueCreditsRequest{
		ProjectID: "KEN-2023-0045",
		Vintage:   "2023",
		Quantity:  100,
		OwnerID:   dev.ID,
	}, dev.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	pattern := regexp.MustCompile(`^CR-KEN-2023-0045-2023-2024-\d{4}$`)
	if !pattern.MatchString(credit.SerialNumber) {
		t.Errorf("SerialNumber %q does not match %s", credit.SerialNumber, pattern)
	}
	if credit.Status != models.CreditAvailable {
		t.Errorf("Status = %q, expected available", credit.Status)
	}
	if credit.IssuanceDate.IsZero() {
		t.Error("IssuanceDate not set")
	}
}

func TestIssueCredits_RegeneratesSerialOnCollision(t *testing.T) {
	svc, db, project, dev := newCreditFixture(t)

	req := IssueCreditsRequest{
		ProjectID: project.ProjectID,
		Vintage:   "2023",
		Quantity:  10,
		OwnerID:   dev.ID,
	}

	svc.serialSuffix = func() int { return 7 }
	first, err := svc.Issue(&req, dev.ID)
	if err != nil {
		t.Fatalf("first Issue: %v", err)
	}

	// The second issuance collides with suffix 7 once, then re-rolls to 8.
	suffixes := []int{7, 8}
	calls := 0
	svc.serialSuffix = func() int {
		s := suffixes[calls]
		if calls < len(suffixes)-1 {
			calls++
		}
		return s
	}
	second, err := svc.Issue(&req, dev.ID)
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}
	if second.SerialNumber == first.SerialNumber {
		t.Errorf("serial %q was not regenerated after collision", second.SerialNumber)
	}
	if calls != 1 {
		t.Errorf("suffix source called %d extra times, expected 1 re-roll", calls)
	}

	var count int64
	db.Model(&models.CarbonCredit{}).Count(&count)
	if count != 2 {
		t.Errorf("persisted %d credits, expected 2", count)
	}
}

func TestIssueCredits_SerialConflictAfterBoundedRetries(t *testing.T) {
	svc, db, project, dev := newCreditFixture(t)

	req := IssueCreditsRequest{
		ProjectID: project.ProjectID,
		Vintage:   "2023",
		Quantity:  10,
		OwnerID:   dev.ID,
	}

	// Every attempt produces the same suffix, so regeneration can never
	// escape the collision and issuance must give up with a conflict.
	svc.serialSuffix = func() int { return 42 }
	if _, err := svc.Issue(&req, dev.ID); err != nil {
		t.Fatalf("first Issue: %v", err)
	}

	_, err := svc.Issue(&req, dev.ID)
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	// Only the first batch and its event survive the failed attempts
	var count int64
	db.Model(&models.CarbonCredit{}).Count(&count)
	if count != 1 {
		t.Errorf("persisted %d credits, expected 1", count)
	}
	db.Model(&models.CreditEvent{}).Count(&count)
	if count != 1 {
		t.Errorf("persisted %d credit events, expected 1", count)
	}
}

func TestIssueCredits_UnknownProject(t *testing.T) {
	svc, _, _, dev := newCreditFixture(t)

	_, err := svc.Issue(&IssueCreditsRequest{
		ProjectID: "KEN-1999-9999",
		Vintage:   "2023",
		Quantity:  10,
		OwnerID:   dev.ID,
	}, dev.ID)
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestIssueCredits_AppendsIssuedEvent(t *testing.T) {
	svc, db, project, dev := newCreditFixture(t)

	credit, err := svc.Issue(&IssueCreditsRequest{
		ProjectID: project.ProjectID,
		Vintage:   "2024",
		Quantity:  50,
		OwnerID:   dev.ID,
	}, dev.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var events []models.CreditEvent
	db.Where("credit_id = ?", credit.ID).Find(&events)
	if len(events) != 1 {
		t.Fatalf("got %d events, expected 1", len(events))
	}
	if events[0].EventType != models.CreditEventIssued {
		t.Errorf("EventType = %q, expected issued", events[0].EventType)
	}
	if events[0].ToOwnerID == nil || *events[0].ToOwnerID != dev.ID {
		t.Errorf("ToOwnerID = %v, expected %d", events[0].ToOwnerID, dev.ID)
	}
}

func TestRetireCredit_SetsTerminalState(t *testing.T) {
	svc, db, project, dev := newCreditFixture(t)

	credit, err := svc.Issue(&IssueCreditsRequest{
		ProjectID: project.ProjectID,
		Vintage:   "2023",
		Quantity:  100,
		OwnerID:   dev.ID,
	}, dev.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	retired, err := svc.Retire(credit.ID, dev.ID)
	if err != nil {
		t.Fatalf("Retire: %v", err)
	}
	if retired.Status != models.CreditRetired {
		t.Errorf("Status = %q, expected retired", retired.Status)
	}
	if retired.RetirementDate == nil {
		t.Error("RetirementDate not set")
	}

	var events int64
	db.Model(&models.CreditEvent{}).
		Where("credit_id = ? AND event_type = ?", credit.ID, models.CreditEventRetired).
		Count(&events)
	if events != 1 {
		t.Errorf("got %d retired events, expected 1", events)
	}
}

func TestRetireCredit_FailsWhenNotAvailable(t *testing.T) {
	svc, db, project, dev := newCreditFixture(t)

	issue := func(vintage string) *models.CarbonCredit {
		credit, err := svc.Issue(&IssueCreditsRequest{
			ProjectID: project.ProjectID,
			Vintage:   vintage,
			Quantity:  10,
			OwnerID:   dev.ID,
		}, dev.ID)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		return credit
	}

	retiredCredit := issue("2022")
	if _, err := svc.Retire(retiredCredit.ID, dev.ID); err != nil {
		t.Fatalf("Retire: %v", err)
	}
	if _, err := svc.Retire(retiredCredit.ID, dev.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("retire retired: expected invalid state error, got %v", err)
	}

	transferee := seedUser(t, db, "transferee", models.RoleUser)
	transferredCredit := issue("2023")
	if _, err := svc.Transfer(transferredCredit.ID, &TransferCreditRequest{NewOwnerID: transferee.ID}, dev.ID); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if _, err := svc.Retire(transferredCredit.ID, dev.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("retire transferred: expected invalid state error, got %v", err)
	}
}

func TestTransferCredit_MovesOwnership(t *testing.T) {
	svc, db, project, dev := newCreditFixture(t)
	buyer := seedUser(t, db, "buyer", models.RoleUser)

	credit, err := svc.Issue(&IssueCreditsRequest{
		ProjectID: project.ProjectID,
		Vintage:   "2023",
		Quantity:  75,
		OwnerID:   dev.ID,
	}, dev.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	transferred, err := svc.Transfer(credit.ID, &TransferCreditRequest{NewOwnerID: buyer.ID}, dev.ID)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if transferred.Status != models.CreditTransferred {
		t.Errorf("Status = %q, expected transferred", transferred.Status)
	}
	if transferred.OwnerID != buyer.ID {
		t.Errorf("OwnerID = %d, expected %d", transferred.OwnerID, buyer.ID)
	}

	// Transfer is terminal
	if _, err := svc.Transfer(credit.ID, &TransferCreditRequest{NewOwnerID: dev.ID}, dev.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("expected invalid state error, got %v", err)
	}
}

func TestCreditHistory_ReplaysLifecycle(t *testing.T) {
	svc, db, project, dev := newCreditFixture(t)
	buyer := seedUser(t, db, "buyer", models.RoleUser)

	credit, err := svc.Issue(&IssueCreditsRequest{
		ProjectID: project.ProjectID,
		Vintage:   "2023",
		Quantity:  20,
		OwnerID:   dev.ID,
	}, dev.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Transfer(credit.ID, &TransferCreditRequest{NewOwnerID: buyer.ID}, dev.ID); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	events, err := svc.History(credit.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, expected 2", len(events))
	}
	if events[0].EventType != models.CreditEventIssued || events[1].EventType != models.CreditEventTransferred {
		t.Errorf("event order = [%s, %s], expected [issued, transferred]",
			events[0].EventType, events[1].EventType)
	}
}

func TestSerialNumberGeneration(t *testing.T) {
	serial := generateSerialNumber("KEN-2023-0045", 2023)
	pattern := regexp.MustCompile(`^CR-KEN-2023-0045-2023-2024-\d{4}$`)
	if !pattern.MatchString(serial) {
		t.Errorf("serial %q does not match %s", serial, pattern)
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{fmt.Errorf("UNIQUE constraint failed: carbon_credits.serial_number"), true},
		{fmt.Errorf("Error 1062: Duplicate entry 'CR-X' for key 'serial_number'"), true},
		{fmt.Errorf("connection refused"), false},
	}
	for _, c := range cases {
		if got := isDuplicateKeyError(c.err); got != c.want {
			t.Errorf("isDuplicateKeyError(%v) = %v, expected %v", c.err, got, c.want)
		}
	}
}
