package extraction

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kyc-gateway/internal/domain"
	"kyc-gateway/internal/storage"
)

// stubExtractor returns canned results per filename, falling back to the
// mock fixtures.
type stubExtractor struct {
	mock    *MockExtractor
	results map[string]Result
}

func (s *stubExtractor) Extract(ctx context.Context, req Request) Result {
	if result, ok := s.results[req.Filename]; ok {
		return result
	}
	return s.mock.Extract(ctx, req)
}

type ServiceSuite struct {
	suite.Suite

	stub    *stubExtractor
	docs    *storage.InMemoryDocumentStore
	service *Service
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.stub = &stubExtractor{mock: NewMockExtractor(0), results: map[string]Result{}}
	s.docs = storage.NewInMemoryDocumentStore()
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.stub, s.docs, nil, logger)
}

func (s *ServiceSuite) newDoc(app *domain.Application, t domain.DocumentType, filename string) domain.Document {
	doc := domain.NewDocument(app.ID, t, "/uploads/"+filename, filename, s.now)
	s.Require().NoError(s.docs.Save(context.Background(), doc))
	return doc
}

func (s *ServiceSuite) TestLaterDocumentWinsOnOverlap() {
	app := domain.NewApplication("user-1", s.now)

	john := s.newDoc(&app, domain.DocumentIDCard, "john_id.jpg")
	alice := s.newDoc(&app, domain.DocumentIDCard, "alice_id.jpg")

	batch, err := s.service.ProcessBatch(context.Background(), &app, []domain.Document{john, alice})
	s.Require().NoError(err)

	s.Equal(BatchSuccess, batch.Status)
	s.Equal("Alice", app.Extracted.Get("first_name"))
	s.Equal("Williams", app.Extracted.Get("last_name"))
	s.Equal("S5678901C", app.Extracted.Get("id_card_number"))
}

func (s *ServiceSuite) TestMergeIsIdempotent() {
	app := domain.NewApplication("user-1", s.now)
	doc := s.newDoc(&app, domain.DocumentIDCard, "john_id.jpg")

	_, err := s.service.ProcessBatch(context.Background(), &app, []domain.Document{doc})
	s.Require().NoError(err)
	once := app.Extracted.Clone()

	_, err = s.service.ProcessBatch(context.Background(), &app, []domain.Document{doc})
	s.Require().NoError(err)

	s.Equal(once, app.Extracted)
}

func (s *ServiceSuite) TestLivePhotoNeverTouchesRecord() {
	app := domain.NewApplication("user-1", s.now)
	selfie := s.newDoc(&app, domain.DocumentLivePhoto, "selfie.jpg")

	batch, err := s.service.ProcessBatch(context.Background(), &app, []domain.Document{selfie})
	s.Require().NoError(err)

	s.Equal(BatchSuccess, batch.Status)
	s.Empty(app.Extracted)
	s.Nil(app.Snapshot(domain.DocumentLivePhoto))

	stored, err := s.docs.FindByID(context.Background(), selfie.ID)
	s.Require().NoError(err)
	s.Equal("passed", stored.Fields.Get("liveness_check"))
	s.Equal("true", stored.Fields.Get("face_detected"))
}

func (s *ServiceSuite) TestFilenameOverridesDetectedIDCard() {
	app := domain.NewApplication("user-1", s.now)
	doc := s.newDoc(&app, domain.DocumentIDCard, "my_passport.jpg")

	// Detection misclassifies the passport photo page as an id_card.
	s.stub.results["my_passport.jpg"] = Result{Success: true, Fields: domain.Record{
		"document_type":  "id_card",
		"id_card_number": "J8365854",
		"first_name":     "ANAND",
		"last_name":      "KUMAR",
	}}

	batch, err := s.service.ProcessBatch(context.Background(), &app, []domain.Document{doc})
	s.Require().NoError(err)

	s.Require().Len(batch.Results, 1)
	s.Equal(domain.DocumentPassport, batch.Results[0].Type)
	s.Equal("J8365854", app.Extracted.Get("passport_number"))
	s.Empty(app.Extracted.Get("id_card_number"))

	stored, err := s.docs.FindByID(context.Background(), doc.ID)
	s.Require().NoError(err)
	s.Equal(domain.DocumentPassport, stored.Type)
	s.NotNil(app.Snapshot(domain.DocumentPassport))
}

func (s *ServiceSuite) TestSnapshotsKeptPerType() {
	app := domain.NewApplication("user-1", s.now)
	passport := s.newDoc(&app, domain.DocumentPassport, "anand_passport.jpg")
	visa := s.newDoc(&app, domain.DocumentVisa, "anand_visa.jpg")

	_, err := s.service.ProcessBatch(context.Background(), &app, []domain.Document{passport, visa})
	s.Require().NoError(err)

	// The merged record holds the visa's overlapping values while the
	// snapshots keep each document's own fields for cross-checks.
	s.Equal("J8365854", app.Snapshot(domain.DocumentPassport).Get("passport_number"))
	s.Equal("CJ3760864", app.Snapshot(domain.DocumentVisa).Get("visa_number"))
	s.Equal("J8365854", app.Snapshot(domain.DocumentVisa).Get("passport_number"))
	s.Equal("CJ3760864", app.Extracted.Get("visa_number"))
}

func (s *ServiceSuite) TestPartialFailureNamesFailedFiles() {
	app := domain.NewApplication("user-1", s.now)
	good := s.newDoc(&app, domain.DocumentIDCard, "john_id.jpg")
	bad := s.newDoc(&app, domain.DocumentIDCard, "blurry.jpg")

	s.stub.results["blurry.jpg"] = Result{Err: "image unreadable"}

	batch, err := s.service.ProcessBatch(context.Background(), &app, []domain.Document{good, bad})
	s.Require().NoError(err)

	s.Equal(BatchPartialSuccess, batch.Status)
	s.Equal([]string{"blurry.jpg"}, batch.FailedFilenames)
	s.Equal("John", app.Extracted.Get("first_name"))
}

func (s *ServiceSuite) TestAllFailedLeavesRecordUntouched() {
	app := domain.NewApplication("user-1", s.now)
	bad := s.newDoc(&app, domain.DocumentIDCard, "blurry.jpg")

	s.stub.results["blurry.jpg"] = Result{Err: "image unreadable"}

	batch, err := s.service.ProcessBatch(context.Background(), &app, []domain.Document{bad})
	s.Require().NoError(err)

	s.Equal(BatchFailed, batch.Status)
	s.Empty(app.Extracted)
}
