package core

import (
	"railsathi.com/complaints-service/internal/store"
)

// ComplaintService exposes owner-scoped complaint operations. The owner id
// always comes from the authenticated identity established by the API
// layer, never from the request payload.
type ComplaintService struct {
	dbStore *store.SQLiteStore
}

func NewComplaintService(db *store.SQLiteStore) *ComplaintService {
	return &ComplaintService{dbStore: db}
}

func (s *ComplaintService) Create(ownerID int64, c *store.Complaint) error {
	return s.dbStore.CreateComplaint(ownerID, c)
}

func (s *ComplaintService) List(ownerID int64) ([]store.Complaint, error) {
	return s.dbStore.ComplaintsByOwner(ownerID)
}

func (s *ComplaintService) Get(ownerID int64, id string) (*store.Complaint, error) {
	return s.dbStore.ComplaintByID(ownerID, id)
}

func (s *ComplaintService) Stats(ownerID int64) (*store.Stats, error) {
	return s.dbStore.StatsByOwner(ownerID)
}
