package dto

import (
	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// Conversores entidad → respuesta. Aceptan nil y devuelven nil.

func UserFrom(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:         u.ID,
		OrgID:      u.OrgID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		EmployeeID: u.EmployeeID,
		CreatedAt:  u.CreatedAt,
	}
}

func MaterialTypeFrom(m *entity.MaterialType) *MaterialTypeResponse {
	if m == nil {
		return nil
	}
	return &MaterialTypeResponse{
		ID:                  m.ID,
		Name:                m.Name,
		Category:            m.Category,
		DefaultUnit:         m.DefaultUnit,
		RequiresSorting:     m.RequiresSorting,
		AllowsContamination: m.AllowsContamination,
		ReferencePrice:      m.ReferencePrice,
		IsActive:            m.IsActive,
		CreatedAt:           m.CreatedAt,
	}
}

func CollectionPointFrom(p *entity.CollectionPoint) *CollectionPointResponse {
	if p == nil {
		return nil
	}
	return &CollectionPointResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Lat:       p.Lat,
		Lng:       p.Lng,
		Type:      p.Type,
		Contact:   p.Contact,
		Phone:     p.Phone,
		Notes:     p.Notes,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

func VehicleFrom(v *entity.Vehicle) *VehicleResponse {
	if v == nil {
		return nil
	}
	return &VehicleResponse{
		ID:         v.ID,
		Plate:      v.Plate,
		Model:      v.Model,
		CapacityKg: v.CapacityKg,
		IsActive:   v.IsActive,
		CreatedAt:  v.CreatedAt,
	}
}

func DestinationFrom(d *entity.Destination) *DestinationResponse {
	if d == nil {
		return nil
	}
	return &DestinationResponse{
		ID:        d.ID,
		Name:      d.Name,
		Type:      d.Type,
		Address:   d.Address,
		Contact:   d.Contact,
		Phone:     d.Phone,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
	}
}

func EmployeeFrom(e *entity.Employee) *EmployeeResponse {
	if e == nil {
		return nil
	}
	return &EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		CPF:       e.CPF,
		Phone:     e.Phone,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
}

func TeamMemberFrom(m *entity.TeamMember) *TeamMemberResponse {
	if m == nil {
		return nil
	}
	return &TeamMemberResponse{
		ID:         m.ID,
		EmployeeID: m.EmployeeID,
		Role:       m.Role,
		Employee:   EmployeeFrom(m.Employee),
	}
}

func TeamFrom(t *entity.Team) *TeamResponse {
	if t == nil {
		return nil
	}
	out := &TeamResponse{ID: t.ID, Name: t.Name, IsActive: t.IsActive, CreatedAt: t.CreatedAt}
	for i := range t.Members {
		out.Members = append(out.Members, *TeamMemberFrom(&t.Members[i]))
	}
	return out
}

func RouteStopFrom(s *entity.RouteStop) *RouteStopResponse {
	if s == nil {
		return nil
	}
	return &RouteStopResponse{
		ID:            s.ID,
		PointID:       s.PointID,
		OrderIndex:    s.OrderIndex,
		PlannedWindow: s.PlannedWindow,
		Notes:         s.Notes,
		Point:         CollectionPointFrom(s.Point),
	}
}

func RouteFrom(r *entity.Route) *RouteResponse {
	if r == nil {
		return nil
	}
	out := &RouteResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
	for i := range r.Stops {
		out.Stops = append(out.Stops, *RouteStopFrom(&r.Stops[i]))
	}
	return out
}

func AssignmentFrom(a *entity.RouteAssignment) *AssignmentResponse {
	if a == nil {
		return nil
	}
	out := &AssignmentResponse{
		ID:        a.ID,
		RouteID:   a.RouteID,
		TeamID:    a.TeamID,
		VehicleID: a.VehicleID,
		Date:      a.Date.Format("2006-01-02"),
		Route:     RouteFrom(a.Route),
		Team:      TeamFrom(a.Team),
		Vehicle:   VehicleFrom(a.Vehicle),
		CreatedAt: a.CreatedAt,
	}
	if a.Shift != nil {
		s := string(*a.Shift)
		out.Shift = &s
	}
	for i := range a.Runs {
		out.Runs = append(out.Runs, *RunFrom(&a.Runs[i]))
	}
	return out
}

func CollectedItemFrom(it *entity.CollectedItem) *CollectedItemResponse {
	if it == nil {
		return nil
	}
	return &CollectedItemResponse{
		ID:             it.ID,
		MaterialTypeID: it.MaterialTypeID,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		IsEstimated:    it.IsEstimated,
		MaterialType:   MaterialTypeFrom(it.MaterialType),
	}
}

func EventFrom(e *entity.CollectionEvent) *EventResponse {
	if e == nil {
		return nil
	}
	out := &EventResponse{
		ID:         e.ID,
		RunID:      e.RunID,
		StopID:     e.StopID,
		Status:     string(e.Status),
		ArrivedAt:  e.ArrivedAt,
		DepartedAt: e.DepartedAt,
		Notes:      e.Notes,
		SkipReason: e.SkipReason,
		Lat:        e.Lat,
		Lng:        e.Lng,
		Stop:       RouteStopFrom(e.Stop),
		Items:      make([]CollectedItemResponse, 0, len(e.Items)),
	}
	for i := range e.Items {
		out.Items = append(out.Items, *CollectedItemFrom(&e.Items[i]))
	}
	return out
}

func RunFrom(r *entity.CollectionRun) *RunResponse {
	if r == nil {
		return nil
	}
	out := &RunResponse{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		Status:       string(r.Status),
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}
	for i := range r.Events {
		out.Events = append(out.Events, *EventFrom(&r.Events[i]))
	}
	return out
}

func SortedItemFrom(it *entity.SortedItem) *SortedItemResponse {
	if it == nil {
		return nil
	}
	return &SortedItemResponse{
		ID:                it.ID,
		MaterialTypeID:    it.MaterialTypeID,
		WeightKg:          it.WeightKg,
		QualityGrade:      string(it.QualityGrade),
		ContaminationPct:  it.ContaminationPct,
		ContaminationNote: it.ContaminationNote,
		MaterialType:      MaterialTypeFrom(it.MaterialType),
	}
}

func BatchFrom(b *entity.SortingBatch) *BatchResponse {
	if b == nil {
		return nil
	}
	out := &BatchResponse{
		ID:        b.ID,
		RunID:     b.RunID,
		SortedBy:  b.SortedBy,
		IsClosed:  b.IsClosed,
		Notes:     b.Notes,
		Items:     make([]SortedItemResponse, 0, len(b.Items)),
		StockLots: make([]LotResponse, 0, len(b.Lots)),
		CreatedAt: b.CreatedAt,
	}
	for i := range b.Items {
		out.Items = append(out.Items, *SortedItemFrom(&b.Items[i]))
	}
	for i := range b.Lots {
		out.StockLots = append(out.StockLots, *LotFrom(&b.Lots[i]))
	}
	return out
}

func LotFrom(l *entity.StockLot) *LotResponse {
	if l == nil {
		return nil
	}
	out := &LotResponse{
		ID:             l.ID,
		MaterialTypeID: l.MaterialTypeID,
		BatchID:        l.BatchID,
		TotalKg:        l.TotalKg,
		AvailableKg:    l.AvailableKg,
		OriginNote:     l.OriginNote,
		MaterialType:   MaterialTypeFrom(l.MaterialType),
		CreatedAt:      l.CreatedAt,
	}
	if l.QualityGrade != nil {
		g := string(*l.QualityGrade)
		out.QualityGrade = &g
	}
	return out
}

func MovementFrom(m *entity.StockMovement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:            m.ID,
		LotID:         m.LotID,
		Type:          string(m.Type),
		QuantityKg:    m.QuantityKg,
		DestinationID: m.DestinationID,
		VehicleID:     m.VehicleID,
		InvoiceRef:    m.InvoiceRef,
		Notes:         m.Notes,
		MovedBy:       m.MovedBy,
		MovedAt:       m.MovedAt,
		Lot:           LotFrom(m.Lot),
		Destination:   DestinationFrom(m.Destination),
		Vehicle:       VehicleFrom(m.Vehicle),
	}
}
