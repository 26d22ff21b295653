// Package testutil provides in-memory repositories and recorders shared by the service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"hirewise/database/repository"
	bookingRepo "hirewise/database/repository/booking"
	notificationRepo "hirewise/database/repository/notification"
	providerRepo "hirewise/database/repository/provider"
	quoteRepo "hirewise/database/repository/quote"
	reviewRepo "hirewise/database/repository/review"
	serviceRequestRepo "hirewise/database/repository/servicerequest"
	"hirewise/models"
)

var (
	_ providerRepo.ProviderRepository             = (*ProviderStore)(nil)
	_ bookingRepo.BookingRepository               = (*BookingStore)(nil)
	_ serviceRequestRepo.ServiceRequestRepository = (*ServiceRequestStore)(nil)
	_ quoteRepo.QuoteRequestRepository            = (*QuoteRequestStore)(nil)
	_ reviewRepo.ReviewRepository                 = (*ReviewStore)(nil)
	_ notificationRepo.NotificationRepository     = (*NotificationStore)(nil)
)

// ProviderStore is an in-memory ProviderRepository. UpdateScoreErrs injects per-id failures.
type ProviderStore struct {
	mu              sync.Mutex
	items           map[string]models.Provider
	order           []string
	UpdateScoreErrs map[string]error
}

func NewProviderStore(providers ...models.Provider) *ProviderStore {
	s := &ProviderStore{items: map[string]models.Provider{}, UpdateScoreErrs: map[string]error{}}
	for _, p := range providers {
		_ = s.Create(context.Background(), &p)
	}
	return s
}

func (s *ProviderStore) GetByID(_ context.Context, id string) (*models.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *ProviderStore) GetAll(_ context.Context) ([]models.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Provider, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *ProviderStore) GetAllIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...), nil
}

func (s *ProviderStore) Create(_ context.Context, p *models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; ok {
		return repository.ErrDuplicate
	}
	s.items[p.ID] = *p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *ProviderStore) UpdateProfile(_ context.Context, p *models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	next := *p
	next.ReliabilityScore = cur.ReliabilityScore
	next.LastScoreUpdate = cur.LastScoreUpdate
	next.CreatedAt = cur.CreatedAt
	s.items[p.ID] = next
	return nil
}

func (s *ProviderStore) UpdateScore(_ context.Context, id string, score int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.UpdateScoreErrs[id]; err != nil {
		return err
	}
	p, ok := s.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.ReliabilityScore = score
	p.LastScoreUpdate = &at
	s.items[id] = p
	return nil
}

func (s *ProviderStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// BookingStore is an in-memory BookingRepository. It mirrors the partial unique slot index
// and the version compare-and-swap of the Mongo implementation.
type BookingStore struct {
	mu       sync.Mutex
	items    map[string]models.Booking
	order    []string
	Replaces int
}

func NewBookingStore(bookings ...models.Booking) *BookingStore {
	s := &BookingStore{items: map[string]models.Booking{}}
	for _, b := range bookings {
		_ = s.Create(context.Background(), &b)
	}
	return s
}

func cloneBooking(b models.Booking) models.Booking {
	b.Timeline = append([]models.TimelineEntry(nil), b.Timeline...)
	if b.CustomerRating != nil {
		r := *b.CustomerRating
		b.CustomerRating = &r
	}
	if b.ProviderRating != nil {
		r := *b.ProviderRating
		b.ProviderRating = &r
	}
	if b.ActualArrival != nil {
		t := *b.ActualArrival
		b.ActualArrival = &t
	}
	if b.AdminVerification.VerifiedAt != nil {
		t := *b.AdminVerification.VerifiedAt
		b.AdminVerification.VerifiedAt = &t
	}
	return b
}

func (s *BookingStore) slotTakenLocked(b *models.Booking) bool {
	if !b.Status.HoldsSlot() {
		return false
	}
	for id, other := range s.items {
		if id == b.ID {
			continue
		}
		if other.SlotHeld && other.ProviderID == b.ProviderID &&
			other.Details.Date == b.Details.Date && other.Details.TimeSlot == b.Details.TimeSlot {
			return true
		}
	}
	return false
}

func (s *BookingStore) Create(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[b.ID]; ok {
		return repository.ErrDuplicate
	}
	if s.slotTakenLocked(b) {
		return repository.ErrDuplicate
	}
	b.SlotHeld = b.Status.HoldsSlot()
	s.items[b.ID] = cloneBooking(*b)
	s.order = append(s.order, b.ID)
	return nil
}

func (s *BookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

func (s *BookingStore) filter(keep func(*models.Booking) bool) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Booking{}
	for _, id := range s.order {
		b := s.items[id]
		if keep(&b) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *BookingStore) FindByProvider(_ context.Context, providerID string) ([]models.Booking, error) {
	return s.filter(func(b *models.Booking) bool { return b.ProviderID == providerID }), nil
}

func (s *BookingStore) FindByCustomer(_ context.Context, customerID string) ([]models.Booking, error) {
	return s.filter(func(b *models.Booking) bool { return b.CustomerID == customerID }), nil
}

func (s *BookingStore) ExistsActiveInSlot(_ context.Context, providerID, date string, slot models.TimeSlot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.items {
		if b.ProviderID == providerID && b.Details.Date == date && b.Details.TimeSlot == slot && b.Status.HoldsSlot() {
			return true, nil
		}
	}
	return false, nil
}

func (s *BookingStore) CountActiveByProvider(_ context.Context, providerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, b := range s.items {
		if b.ProviderID == providerID && b.Status.HoldsSlot() {
			n++
		}
	}
	return n, nil
}

func (s *BookingStore) ReplaceWithVersion(_ context.Context, b *models.Booking, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[b.ID]
	if !ok || cur.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	if s.slotTakenLocked(b) {
		return repository.ErrDuplicate
	}
	next := cloneBooking(*b)
	next.Version = expectedVersion + 1
	next.SlotHeld = next.Status.HoldsSlot()
	s.items[b.ID] = next
	s.Replaces++
	b.Version = next.Version
	b.SlotHeld = next.SlotHeld
	return nil
}

// ServiceRequestStore is an in-memory ServiceRequestRepository.
type ServiceRequestStore struct {
	mu    sync.Mutex
	items map[string]models.ServiceRequest
	order []string
}

func NewServiceRequestStore() *ServiceRequestStore {
	return &ServiceRequestStore{items: map[string]models.ServiceRequest{}}
}

func (s *ServiceRequestStore) Create(_ context.Context, r *models.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[r.ID]; ok {
		return repository.ErrDuplicate
	}
	s.items[r.ID] = *r
	s.order = append(s.order, r.ID)
	return nil
}

func (s *ServiceRequestStore) GetByID(_ context.Context, id string) (*models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *ServiceRequestStore) find(keep func(*models.ServiceRequest) bool) []models.ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ServiceRequest{}
	for _, id := range s.order {
		r := s.items[id]
		if keep(&r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *ServiceRequestStore) FindByCustomer(_ context.Context, customerID string) ([]models.ServiceRequest, error) {
	return s.find(func(r *models.ServiceRequest) bool { return r.CustomerID == customerID }), nil
}

func (s *ServiceRequestStore) FindByProvider(_ context.Context, providerID string) ([]models.ServiceRequest, error) {
	return s.find(func(r *models.ServiceRequest) bool { return r.ProviderID == providerID }), nil
}

func (s *ServiceRequestStore) SetStatus(_ context.Context, id string, status models.ServiceRequestStatus, stampField string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = status
	switch stampField {
	case "requestedAt":
		r.Timestamps.RequestedAt = &at
	case "quotedAt":
		r.Timestamps.QuotedAt = &at
	case "acceptedAt":
		r.Timestamps.AcceptedAt = &at
	case "startedAt":
		r.Timestamps.StartedAt = &at
	case "completedAt":
		r.Timestamps.CompletedAt = &at
	case "cancelledAt":
		r.Timestamps.CancelledAt = &at
	}
	s.items[id] = r
	return nil
}

func (s *ServiceRequestStore) SetEstimate(_ context.Context, id string, amount float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = models.RequestQuoteSent
	r.EstimatedCost = amount
	r.Timestamps.QuotedAt = &at
	s.items[id] = r
	return nil
}

// QuoteRequestStore is an in-memory QuoteRequestRepository.
type QuoteRequestStore struct {
	mu    sync.Mutex
	items map[string]models.QuoteRequest
	order []string
}

func NewQuoteRequestStore() *QuoteRequestStore {
	return &QuoteRequestStore{items: map[string]models.QuoteRequest{}}
}

func cloneQuoteRequest(q models.QuoteRequest) models.QuoteRequest {
	q.Quotes = append([]models.Quote(nil), q.Quotes...)
	return q
}

func (s *QuoteRequestStore) Create(_ context.Context, q *models.QuoteRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[q.ID]; ok {
		return repository.ErrDuplicate
	}
	s.items[q.ID] = cloneQuoteRequest(*q)
	s.order = append(s.order, q.ID)
	return nil
}

func (s *QuoteRequestStore) GetByID(_ context.Context, id string) (*models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneQuoteRequest(q)
	return &out, nil
}

func (s *QuoteRequestStore) find(keep func(*models.QuoteRequest) bool) []models.QuoteRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.QuoteRequest{}
	for _, id := range s.order {
		q := s.items[id]
		if keep(&q) {
			out = append(out, cloneQuoteRequest(q))
		}
	}
	return out
}

func (s *QuoteRequestStore) FindByCustomer(_ context.Context, customerID string) ([]models.QuoteRequest, error) {
	return s.find(func(q *models.QuoteRequest) bool { return q.CustomerID == customerID }), nil
}

func (s *QuoteRequestStore) FindOpen(_ context.Context, category string) ([]models.QuoteRequest, error) {
	return s.find(func(q *models.QuoteRequest) bool {
		return q.Status.AcceptsQuotes() && (category == "" || q.Category == category)
	}), nil
}

func (s *QuoteRequestStore) AppendQuote(_ context.Context, id string, quote models.Quote, at time.Time) (*models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[id]
	if !ok || !q.Status.AcceptsQuotes() {
		return nil, repository.ErrVersionConflict
	}
	q = cloneQuoteRequest(q)
	q.Quotes = append(q.Quotes, quote)
	if q.Status == models.QuoteRequestPending {
		q.Status = models.QuoteRequestQuoted
	}
	q.UpdatedAt = at
	s.items[id] = q
	out := cloneQuoteRequest(q)
	return &out, nil
}

func (s *QuoteRequestStore) AcceptQuote(_ context.Context, id, quoteID string, at time.Time) (*models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q = cloneQuoteRequest(q)
	target := q.FindQuote(quoteID)
	if target == nil {
		return nil, repository.ErrNotFound
	}
	if !q.Status.AcceptsQuotes() {
		return nil, repository.ErrVersionConflict
	}
	target.Status = models.QuoteAccepted
	q.Status = models.QuoteRequestAccepted
	q.AcceptedQuoteID = quoteID
	q.UpdatedAt = at
	s.items[id] = q
	out := cloneQuoteRequest(q)
	return &out, nil
}

func (s *QuoteRequestStore) ExpireBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, q := range s.items {
		if q.Status.AcceptsQuotes() && q.ExpiresAt != nil && q.ExpiresAt.Before(cutoff) {
			q.Status = models.QuoteRequestExpired
			q.UpdatedAt = cutoff
			s.items[id] = q
			n++
		}
	}
	return n, nil
}

// ReviewStore is an in-memory ReviewRepository with the one-per-request constraint.
type ReviewStore struct {
	mu    sync.Mutex
	items []models.Review
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{}
}

func (s *ReviewStore) Create(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ServiceRequestID == r.ServiceRequestID || existing.ID == r.ID {
			return repository.ErrDuplicate
		}
	}
	s.items = append(s.items, *r)
	return nil
}

func (s *ReviewStore) GetByServiceRequest(_ context.Context, serviceRequestID string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.ServiceRequestID == serviceRequestID {
			out := r
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ReviewStore) FindByProvider(_ context.Context, providerID string) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Review{}
	for _, r := range s.items {
		if r.ProviderID == providerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// NotificationStore is an in-memory NotificationRepository. CreateErr makes every insert fail.
type NotificationStore struct {
	mu        sync.Mutex
	items     []models.Notification
	CreateErr error
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.items = append(s.items, *n)
	return nil
}

func (s *NotificationStore) FindByUser(_ context.Context, userID string, unreadOnly bool, limit int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Notification{}
	for i := len(s.items) - 1; i >= 0; i-- {
		n := s.items[i]
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, n)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *NotificationStore) CountUnread(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, item := range s.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

// All returns a snapshot of every stored notification in insertion order.
func (s *NotificationStore) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.items...)
}
