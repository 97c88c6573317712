// Package memstore implementa los puertos de repositorio en memoria para tests de casos de uso.
// Las transacciones se serializan con un mutex y se revierten restaurando una copia del estado.
package memstore

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

type tables struct {
	orgs         map[string]entity.Organization
	users        map[string]entity.User
	materials    map[string]entity.MaterialType
	points       map[string]entity.CollectionPoint
	vehicles     map[string]entity.Vehicle
	destinations map[string]entity.Destination
	employees    map[string]entity.Employee
	routes       map[string]entity.Route
	stops        map[string]entity.RouteStop
	teams        map[string]entity.Team
	members      map[string]entity.TeamMember
	assignments  map[string]entity.RouteAssignment
	runs         map[string]entity.CollectionRun
	events       map[string]entity.CollectionEvent
	items        map[string]entity.CollectedItem
	batches      map[string]entity.SortingBatch
	sorted       map[string]entity.SortedItem
	lots         map[string]entity.StockLot
	movements    map[string]entity.StockMovement
	seq          map[string]int64 // orden de inserción por ID
	next         int64
}

func newTables() tables {
	return tables{
		orgs:         map[string]entity.Organization{},
		users:        map[string]entity.User{},
		materials:    map[string]entity.MaterialType{},
		points:       map[string]entity.CollectionPoint{},
		vehicles:     map[string]entity.Vehicle{},
		destinations: map[string]entity.Destination{},
		employees:    map[string]entity.Employee{},
		routes:       map[string]entity.Route{},
		stops:        map[string]entity.RouteStop{},
		teams:        map[string]entity.Team{},
		members:      map[string]entity.TeamMember{},
		assignments:  map[string]entity.RouteAssignment{},
		runs:         map[string]entity.CollectionRun{},
		events:       map[string]entity.CollectionEvent{},
		items:        map[string]entity.CollectedItem{},
		batches:      map[string]entity.SortingBatch{},
		sorted:       map[string]entity.SortedItem{},
		lots:         map[string]entity.StockLot{},
		movements:    map[string]entity.StockMovement{},
		seq:          map[string]int64{},
	}
}

func (t tables) clone() tables {
	return tables{
		orgs:         maps.Clone(t.orgs),
		users:        maps.Clone(t.users),
		materials:    maps.Clone(t.materials),
		points:       maps.Clone(t.points),
		vehicles:     maps.Clone(t.vehicles),
		destinations: maps.Clone(t.destinations),
		employees:    maps.Clone(t.employees),
		routes:       maps.Clone(t.routes),
		stops:        maps.Clone(t.stops),
		teams:        maps.Clone(t.teams),
		members:      maps.Clone(t.members),
		assignments:  maps.Clone(t.assignments),
		runs:         maps.Clone(t.runs),
		events:       maps.Clone(t.events),
		items:        maps.Clone(t.items),
		batches:      maps.Clone(t.batches),
		sorted:       maps.Clone(t.sorted),
		lots:         maps.Clone(t.lots),
		movements:    maps.Clone(t.movements),
		seq:          maps.Clone(t.seq),
		next:         t.next,
	}
}

// Store estado compartido por todos los repositorios.
type Store struct {
	mu   sync.Mutex // protege t
	txMu sync.Mutex // una transacción a la vez
	t    tables

	// FailOn, si no es nil, se consulta antes de cada escritura; un error aborta la operación.
	// Sirve para simular fallos a mitad de transacción.
	FailOn func(op string) error

	// OnLock, si no es nil, recibe cada fila pedida con GetForUpdate ("runs", id).
	OnLock func(table, id string)
}

// New crea un store vacío.
func New() *Store {
	return &Store{t: newTables()}
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) track(id string) {
	s.t.next++
	s.t.seq[id] = s.t.next
}

func (s *Store) fail(op string) error {
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn(op)
}

func (s *Store) locked(table, id string) {
	if s.OnLock != nil {
		s.OnLock(table, id)
	}
}

// tx serializa fn y restaura el estado si devuelve error.
func (s *Store) tx(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Repositorios.

func (s *Store) Organizations() repository.OrganizationRepository       { return &orgRepo{s} }
func (s *Store) Users() repository.UserRepository                       { return &userRepo{s} }
func (s *Store) MaterialTypes() repository.MaterialTypeRepository       { return materialRepo(s) }
func (s *Store) CollectionPoints() repository.CollectionPointRepository { return pointRepo(s) }
func (s *Store) Vehicles() repository.VehicleRepository                 { return vehicleRepo(s) }
func (s *Store) Destinations() repository.DestinationRepository         { return destinationRepo(s) }
func (s *Store) Employees() repository.EmployeeRepository               { return employeeRepo(s) }
func (s *Store) Routes() repository.RouteRepository                     { return &routeRepo{catalog: routeCatalog(s), s: s} }
func (s *Store) Teams() repository.TeamRepository                       { return &teamRepo{catalog: teamCatalog(s), s: s} }
func (s *Store) Assignments() repository.AssignmentRepository           { return &assignmentRepo{s} }
func (s *Store) Runs() repository.RunRepository                         { return &runRepo{s} }
func (s *Store) Events() repository.EventRepository                     { return &eventRepo{s} }
func (s *Store) CollectedItems() repository.CollectedItemRepository     { return &itemRepo{s} }
func (s *Store) SortingBatches() repository.SortingBatchRepository      { return &batchRepo{s} }
func (s *Store) StockLots() repository.StockLotRepository               { return &lotRepo{s} }
func (s *Store) StockMovements() repository.StockMovementRepository     { return &movementRepo{s} }
func (s *Store) Reports() repository.ReportRepository                   { return &reportRepo{s} }

// TxRunner implementa los puertos TxRunner de operations, sorting y stock.
type TxRunner struct{ s *Store }

// NewTxRunner devuelve el runner del store.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) RunOperations(ctx context.Context, fn func(
	repository.AssignmentRepository,
	repository.RunRepository,
	repository.EventRepository,
	repository.CollectedItemRepository,
) error) error {
	return r.s.tx(func() error {
		return fn(r.s.Assignments(), r.s.Runs(), r.s.Events(), r.s.CollectedItems())
	})
}

func (r *TxRunner) RunSorting(ctx context.Context, fn func(
	repository.RunRepository,
	repository.SortingBatchRepository,
	repository.StockLotRepository,
	repository.StockMovementRepository,
) error) error {
	return r.s.tx(func() error {
		return fn(r.s.Runs(), r.s.SortingBatches(), r.s.StockLots(), r.s.StockMovements())
	})
}

func (r *TxRunner) RunStock(ctx context.Context, fn func(
	repository.StockLotRepository,
	repository.StockMovementRepository,
) error) error {
	return r.s.tx(func() error {
		return fn(r.s.StockLots(), r.s.StockMovements())
	})
}
