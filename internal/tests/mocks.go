package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/redis"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	AssignCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	AssignError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, r := range m.rides {
		if r.RiderID == riderID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[ride.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

// Assign performs the compare-and-set under the write lock, matching the
// guarded-UPDATE semantics of the real repository.
func (m *MockRideRepository) Assign(ctx context.Context, rideID, driverID, otp string) (*domain.Ride, error) {
	atomic.AddInt32(&m.AssignCallCount, 1)
	if m.AssignError != nil {
		return nil, m.AssignError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusRequested {
		return nil, repository.ErrConflict
	}
	ride.Status = domain.RideStatusAssigned
	ride.DriverID = driverID
	ride.OTP = otp
	copy := *ride
	return &copy, nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	UpsertCallCount       int32
	UpdateStatusCallCount int32
	UpdateRatingCallCount int32

	// Error injection
	UpsertError       error
	UpdateStatusError error
	UpdateRatingError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

// Upsert mirrors the real repository: an existing row keeps its name and
// rating aggregates, only status and position change.
func (m *MockDriverRepository) Upsert(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.drivers[driver.ID]
	if !ok {
		copy := *driver
		m.drivers[driver.ID] = &copy
		return nil
	}
	existing.Status = driver.Status
	existing.Lat = driver.Lat
	existing.Lng = driver.Lng
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Status = status
	return nil
}

func (m *MockDriverRepository) UpdateRating(ctx context.Context, id string, average float64, total int) error {
	atomic.AddInt32(&m.UpdateRatingCallCount, 1)
	if m.UpdateRatingError != nil {
		return m.UpdateRatingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.AverageRating = average
	driver.TotalRatings = total
	return nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK RECEIPT REPOSITORY
// ──────────────────────────────────────────────

// MockReceiptRepository is a mock implementation of ReceiptRepository.
type MockReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]*domain.Receipt // keyed by ride ID

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError              error
	GetByRideIDError         error
	UpdatePaymentStatusError error
}

// NewMockReceiptRepository creates a new mock receipt repository.
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{
		receipts: make(map[string]*domain.Receipt),
	}
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receipts[receipt.RideID]; ok {
		return repository.ErrDuplicate
	}
	copy := *receipt
	m.receipts[receipt.RideID] = &copy
	return nil
}

func (m *MockReceiptRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Receipt, error) {
	if m.GetByRideIDError != nil {
		return nil, m.GetByRideIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	receipt, ok := m.receipts[rideID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *receipt
	return &copy, nil
}

func (m *MockReceiptRepository) UpdatePaymentStatus(ctx context.Context, rideID string, status domain.PaymentStatus, transactionID string) error {
	if m.UpdatePaymentStatusError != nil {
		return m.UpdatePaymentStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt, ok := m.receipts[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	receipt.PaymentStatus = status
	if transactionID != "" {
		receipt.TransactionID = transactionID
	}
	return nil
}

// CountReceipts returns the number of receipts.
func (m *MockReceiptRepository) CountReceipts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.receipts)
}

// ──────────────────────────────────────────────
// MOCK RATING REPOSITORY
// ──────────────────────────────────────────────

// MockRatingRepository is a mock implementation of RatingRepository.
type MockRatingRepository struct {
	mu      sync.RWMutex
	ratings map[string]*domain.Rating // keyed by ride ID

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockRatingRepository creates a new mock rating repository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		ratings: make(map[string]*domain.Rating),
	}
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ratings[rating.RideID]; ok {
		return repository.ErrDuplicate
	}
	copy := *rating
	m.ratings[rating.RideID] = &copy
	return nil
}

func (m *MockRatingRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rating, ok := m.ratings[rideID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rating
	return &copy, nil
}

func (m *MockRatingRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Rating, 0)
	for _, r := range m.ratings {
		if r.DriverID == driverID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountRatings returns the number of ratings.
func (m *MockRatingRepository) CountRatings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ratings)
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor serializes Transact callbacks over in-memory mock
// repositories. Writes are applied directly, so a callback that fails
// midway does not roll back; tests exercising failure paths should assert
// on what the callback reached, not on rollback.
type MockTransactor struct {
	mu    sync.Mutex
	Repos repository.Repositories

	// Counters for verification
	TransactCallCount int32

	// Error injection
	TransactError error
}

// NewMockTransactor creates a new mock transactor over the given repos.
func NewMockTransactor(repos repository.Repositories) *MockTransactor {
	return &MockTransactor{Repos: repos}
}

func (m *MockTransactor) Transact(ctx context.Context, fn func(r repository.Repositories) error) error {
	atomic.AddInt32(&m.TransactCallCount, 1)
	if m.TransactError != nil {
		return m.TransactError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.Repos)
}

// ──────────────────────────────────────────────
// MOCK DEMAND LEDGER
// ──────────────────────────────────────────────

// MockDemandLedger is a mock implementation of the demand ledger.
type MockDemandLedger struct {
	mu       sync.Mutex
	counters map[redis.Counter]int64

	// Counters for verification
	IncrementCallCount int32
	DecrementCallCount int32

	// Error injection
	IncrementError error
	DecrementError error
	SnapshotError  error
}

// NewMockDemandLedger creates a new mock demand ledger.
func NewMockDemandLedger() *MockDemandLedger {
	return &MockDemandLedger{
		counters: make(map[redis.Counter]int64),
	}
}

// SetCounter seeds a counter value.
func (m *MockDemandLedger) SetCounter(c redis.Counter, v int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[c] = v
}

// GetCounter returns a counter value for assertions.
func (m *MockDemandLedger) GetCounter(c redis.Counter) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[c]
}

func (m *MockDemandLedger) Increment(ctx context.Context, c redis.Counter) error {
	atomic.AddInt32(&m.IncrementCallCount, 1)
	if m.IncrementError != nil {
		return m.IncrementError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[c]++
	return nil
}

// Decrement floors at zero like the Lua-scripted decrement.
func (m *MockDemandLedger) Decrement(ctx context.Context, c redis.Counter) error {
	atomic.AddInt32(&m.DecrementCallCount, 1)
	if m.DecrementError != nil {
		return m.DecrementError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters[c] > 0 {
		m.counters[c]--
	}
	return nil
}

// Snapshot reads both counters; an unseeded driver counter reads as the
// cold-start default, matching the real ledger.
func (m *MockDemandLedger) Snapshot(ctx context.Context) (redis.DemandSnapshot, error) {
	if m.SnapshotError != nil {
		return redis.DemandSnapshot{}, m.SnapshotError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := redis.DemandSnapshot{
		PendingRides:     m.counters[redis.CounterPendingRides],
		AvailableDrivers: 10,
	}
	if v, ok := m.counters[redis.CounterAvailableDrivers]; ok {
		snap.AvailableDrivers = v
	}
	return snap, nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// mockLocation is a cached driver position.
type mockLocation struct {
	Name string
	Lat  float64
	Lng  float64
}

// MockLocationStore is a mock implementation of the location store.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]mockLocation
	known     map[string]bool

	// Counters for verification
	UpdateLocationCallCount int32
	MarkKnownCallCount      int32

	// Error injection
	UpdateLocationError error
	RemoveLocationError error
	IsKnownError        error
	MarkKnownError      error
	ForgetKnownError    error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make(map[string]mockLocation),
		known:     make(map[string]bool),
	}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, driverID, name string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[driverID] = mockLocation{Name: name, Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	if m.RemoveLocationError != nil {
		return m.RemoveLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, driverID)
	return nil
}

func (m *MockLocationStore) IsKnown(ctx context.Context, driverID string) (bool, error) {
	if m.IsKnownError != nil {
		return false, m.IsKnownError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.known[driverID], nil
}

func (m *MockLocationStore) MarkKnown(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.MarkKnownCallCount, 1)
	if m.MarkKnownError != nil {
		return m.MarkKnownError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.known[driverID] = true
	return nil
}

func (m *MockLocationStore) ForgetKnown(ctx context.Context, driverID string) error {
	if m.ForgetKnownError != nil {
		return m.ForgetKnownError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.known, driverID)
	return nil
}

// HasLocation reports whether a cached position exists for the driver.
func (m *MockLocationStore) HasLocation(driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.locations[driverID]
	return ok
}

// GetLocation returns the cached position for assertions.
func (m *MockLocationStore) GetLocation(driverID string) (mockLocation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[driverID]
	return loc, ok
}

// ──────────────────────────────────────────────
// MOCK BROADCASTER
// ──────────────────────────────────────────────

// BroadcastEvent is a recorded publish call.
type BroadcastEvent struct {
	Topic   string
	Payload any
}

// MockBroadcaster records published events instead of writing to Redis.
type MockBroadcaster struct {
	mu     sync.Mutex
	events []BroadcastEvent

	// Error injection
	PublishError error
}

// NewMockBroadcaster creates a new mock broadcaster.
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

func (m *MockBroadcaster) Publish(ctx context.Context, topic string, payload any) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, BroadcastEvent{Topic: topic, Payload: payload})
	return nil
}

// Events returns a snapshot of recorded events.
func (m *MockBroadcaster) Events() []BroadcastEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BroadcastEvent, len(m.events))
	copy(out, m.events)
	return out
}

// CountEvents counts recorded events for a topic.
func (m *MockBroadcaster) CountEvents(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.events {
		if e.Topic == topic {
			count++
		}
	}
	return count
}
