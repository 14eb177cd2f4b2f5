package testfixtures

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-RepairService/pkg/types"
)

// Store is an in-memory stand-in for the PostgreSQL schema. It honours the
// same contracts as the SQL repositories, including the partial unique index
// on (slot_id, scheduled_date) for non-cancelled reservations, and returns the
// same sentinel errors.
type Store struct {
	mu sync.Mutex

	slots        map[int64]*domain.Slot
	reservations map[int64]*domain.Reservation
	devices      map[int64]*domain.Device
	quotes       map[quoteKey]*domain.FaultQuote

	nextSlotID        int64
	nextReservationID int64

	// FailSetAvailability makes every flag write fail, for atomicity tests
	FailSetAvailability error
}

type quoteKey struct {
	deviceID int64
	faultID  int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		slots:        make(map[int64]*domain.Slot),
		reservations: make(map[int64]*domain.Reservation),
		devices:      make(map[int64]*domain.Device),
		quotes:       make(map[quoteKey]*domain.FaultQuote),
	}
}

// Slots returns the slot repository view of the store
func (s *Store) Slots() *SlotRepository { return &SlotRepository{s: s} }

// Reservations returns the reservation ledger view of the store
func (s *Store) Reservations() *ReservationRepository { return &ReservationRepository{s: s} }

// Catalog returns the read-only catalog view of the store
func (s *Store) Catalog() *CatalogRepository { return &CatalogRepository{s: s} }

// TxManager returns a transaction manager that serializes transactions and
// restores the previous state when the callback fails
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// AddSlot seeds a slot and returns its copy
func (s *Store) AddSlot(name, start, end string) *domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSlotID++
	slot := &domain.Slot{
		ID:          s.nextSlotID,
		ShiftName:   name,
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		IsAvailable: true,
	}
	s.slots[slot.ID] = slot
	return copySlot(slot)
}

// AddDevice seeds a device with priced faults (faultID -> price)
func (s *Store) AddDevice(id int64, brand, model string, prices map[int64]float64) *domain.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	device := &domain.Device{ID: id, Brand: brand, Model: model}
	s.devices[id] = device
	for faultID, price := range prices {
		s.quotes[quoteKey{deviceID: id, faultID: faultID}] = &domain.FaultQuote{
			FaultID:   faultID,
			FaultName: "fault",
			DeviceID:  id,
			Price:     price,
		}
	}
	return device
}

// SlotAvailable reads the cached flag of a slot
func (s *Store) SlotAvailable(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[id].IsAvailable
}

// ActiveCount counts non-cancelled reservations for slot and calendar date
func (s *Store) ActiveCount(slotID int64, date time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, r := range s.reservations {
		if r.SlotID == slotID && domain.SameDay(r.ScheduledDate, date) && r.IsActive() {
			count++
		}
	}
	return count
}

// ReservationCount counts all rows in the ledger
func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

type snapshot struct {
	slots             map[int64]domain.Slot
	reservations      map[int64]domain.Reservation
	nextSlotID        int64
	nextReservationID int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		slots:             make(map[int64]domain.Slot, len(s.slots)),
		reservations:      make(map[int64]domain.Reservation, len(s.reservations)),
		nextSlotID:        s.nextSlotID,
		nextReservationID: s.nextReservationID,
	}
	for id, slot := range s.slots {
		snap.slots[id] = *slot
	}
	for id, r := range s.reservations {
		snap.reservations[id] = *copyReservation(r)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots = make(map[int64]*domain.Slot, len(snap.slots))
	for id, slot := range snap.slots {
		slot := slot
		s.slots[id] = &slot
	}
	s.reservations = make(map[int64]*domain.Reservation, len(snap.reservations))
	for id, r := range snap.reservations {
		r := r
		s.reservations[id] = &r
	}
	s.nextSlotID = snap.nextSlotID
	s.nextReservationID = snap.nextReservationID
}

// TxManager runs callbacks one at a time with rollback on error
type TxManager struct {
	s  *Store
	mu sync.Mutex
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.s.snapshot()
	if err := fn(ctx); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// SlotRepository in-memory slot registry
type SlotRepository struct{ s *Store }

func (r *SlotRepository) Create(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.nameTaken(slot.ShiftName, 0) {
		return nil, slotRepo.ErrDuplicateShiftName
	}

	r.s.nextSlotID++
	created := copySlot(slot)
	created.ID = r.s.nextSlotID
	created.ShiftName = strings.TrimSpace(created.ShiftName)
	created.IsAvailable = true
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.s.slots[created.ID] = created

	return copySlot(created), nil
}

func (r *SlotRepository) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return copySlot(slot), nil
}

func (r *SlotRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.GetByID(ctx, id)
}

func (r *SlotRepository) List(_ context.Context) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slots := make([]*domain.Slot, 0, len(r.s.slots))
	for _, slot := range r.s.slots {
		slots = append(slots, copySlot(slot))
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime.IsBefore(slots[j].StartTime)
		}
		return slots[i].ID < slots[j].ID
	})
	return slots, nil
}

func (r *SlotRepository) Update(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.slots[slot.ID]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	if r.s.nameTaken(slot.ShiftName, slot.ID) {
		return nil, slotRepo.ErrDuplicateShiftName
	}

	existing.ShiftName = strings.TrimSpace(slot.ShiftName)
	existing.StartTime = slot.StartTime
	existing.EndTime = slot.EndTime
	existing.UpdatedAt = time.Now()

	return copySlot(existing), nil
}

func (r *SlotRepository) SetAvailability(_ context.Context, id int64, available bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.FailSetAvailability != nil {
		return r.s.FailSetAvailability
	}

	slot, ok := r.s.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	slot.IsAvailable = available
	return nil
}

func (r *SlotRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	for _, res := range r.s.reservations {
		if res.SlotID == id {
			return slotRepo.ErrSlotReferenced
		}
	}
	delete(r.s.slots, id)
	return nil
}

func (r *SlotRepository) ExistsByShiftName(_ context.Context, name string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.nameTaken(name, excludeID), nil
}

func (r *SlotRepository) CountReservations(_ context.Context, id int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, res := range r.s.reservations {
		if res.SlotID == id {
			count++
		}
	}
	return count, nil
}

func (s *Store) nameTaken(name string, excludeID int64) bool {
	for id, slot := range s.slots {
		if id != excludeID && strings.EqualFold(strings.TrimSpace(slot.ShiftName), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// ReservationRepository in-memory reservation ledger
type ReservationRepository struct{ s *Store }

func (r *ReservationRepository) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if res.Status.IsActive() && r.s.activeOnDay(res.SlotID, res.ScheduledDate, 0) != nil {
		return nil, reservationRepo.ErrSlotAlreadyBooked
	}

	r.s.nextReservationID++
	res.ID = r.s.nextReservationID
	res.ScheduledDate = domain.CalendarDate(res.ScheduledDate)
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	r.s.reservations[res.ID] = copyReservation(res)

	return res, nil
}

func (r *ReservationRepository) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return r.s.joined(res), nil
}

func (r *ReservationRepository) FindActiveOnDay(_ context.Context, slotID int64, dayStart, dayEnd time.Time, excludeID int64) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var found *domain.Reservation
	for _, res := range r.s.reservations {
		if res.SlotID != slotID || res.ID == excludeID || !res.IsActive() {
			continue
		}
		if res.ScheduledDate.Before(domain.CalendarDate(dayStart)) || res.ScheduledDate.After(dayEnd) {
			continue
		}
		if found == nil || res.ID < found.ID {
			found = res
		}
	}
	if found == nil {
		return nil, nil
	}
	return r.s.joined(found), nil
}

func (r *ReservationRepository) Update(_ context.Context, res *domain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.reservations[res.ID]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	if res.Status.IsActive() && r.s.activeOnDay(res.SlotID, res.ScheduledDate, res.ID) != nil {
		return reservationRepo.ErrSlotAlreadyBooked
	}

	existing.SlotID = res.SlotID
	existing.ScheduledDate = domain.CalendarDate(res.ScheduledDate)
	existing.Status = res.Status
	existing.Notes = res.Notes
	existing.UpdatedAt = time.Now()
	res.UpdatedAt = existing.UpdatedAt

	return nil
}

func (r *ReservationRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reservations[id]; !ok {
		return reservationRepo.ErrReservationNotFound
	}
	delete(r.s.reservations, id)
	return nil
}

func (r *ReservationRepository) ListWithFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := make([]*domain.Reservation, 0)
	for _, res := range r.s.reservations {
		if filter.UserID != nil && res.UserID != *filter.UserID {
			continue
		}
		if filter.SlotID != nil && res.SlotID != *filter.SlotID {
			continue
		}
		if filter.StartDate != nil && res.ScheduledDate.Before(domain.CalendarDate(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && res.ScheduledDate.After(domain.CalendarDate(*filter.EndDate)) {
			continue
		}
		if filter.Status != nil {
			if res.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeCancelled && res.IsCancelled() {
			continue
		}
		list = append(list, r.s.joined(res))
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].ScheduledDate.Equal(list[j].ScheduledDate) {
			return list[i].ScheduledDate.After(list[j].ScheduledDate)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (s *Store) activeOnDay(slotID int64, date time.Time, excludeID int64) *domain.Reservation {
	for _, res := range s.reservations {
		if res.SlotID == slotID && res.ID != excludeID && res.IsActive() && domain.SameDay(res.ScheduledDate, date) {
			return res
		}
	}
	return nil
}

func (s *Store) joined(res *domain.Reservation) *domain.Reservation {
	out := copyReservation(res)
	if slot, ok := s.slots[res.SlotID]; ok {
		out.ShiftName = slot.ShiftName
		out.SlotStartTime = slot.StartTime.String()
		out.SlotEndTime = slot.EndTime.String()
	}
	return out
}

// CatalogRepository in-memory device and price catalog
type CatalogRepository struct{ s *Store }

func (r *CatalogRepository) GetDevice(_ context.Context, id int64) (*domain.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	device, ok := r.s.devices[id]
	if !ok {
		return nil, catalogRepo.ErrDeviceNotFound
	}
	out := *device
	return &out, nil
}

func (r *CatalogRepository) GetFaultQuotes(_ context.Context, deviceID int64, faultIDs []int64) ([]*domain.FaultQuote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	quotes := make([]*domain.FaultQuote, 0, len(faultIDs))
	seen := make(map[int64]bool, len(faultIDs))
	for _, faultID := range faultIDs {
		if seen[faultID] {
			continue
		}
		seen[faultID] = true
		if q, ok := r.s.quotes[quoteKey{deviceID: deviceID, faultID: faultID}]; ok {
			out := *q
			quotes = append(quotes, &out)
		}
	}
	return quotes, nil
}

func copySlot(slot *domain.Slot) *domain.Slot {
	out := *slot
	return &out
}

func copyReservation(res *domain.Reservation) *domain.Reservation {
	out := *res
	if res.FaultIDs != nil {
		out.FaultIDs = append([]int64(nil), res.FaultIDs...)
	}
	if res.Notes != nil {
		notes := *res.Notes
		out.Notes = &notes
	}
	return &out
}
