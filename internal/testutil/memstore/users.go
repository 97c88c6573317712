package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

type orgRepo struct{ s *Store }

func (r *orgRepo) Create(_ context.Context, org *entity.Organization) error {
	defer r.s.lock()()
	for _, o := range r.s.t.orgs {
		if o.Slug == org.Slug {
			return domain.Conflict("Registro duplicado")
		}
	}
	r.s.t.orgs[org.ID] = *org
	r.s.track(org.ID)
	return nil
}

func (r *orgRepo) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	defer r.s.lock()()
	o, ok := r.s.t.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *orgRepo) GetBySlug(_ context.Context, slug string) (*entity.Organization, error) {
	defer r.s.lock()()
	for _, o := range r.s.t.orgs {
		if o.Slug == slug {
			return &o, nil
		}
	}
	return nil, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	for _, other := range r.s.t.users {
		if other.Email == u.Email {
			return domain.Conflict("Registro duplicado")
		}
	}
	r.s.t.users[u.ID] = *u
	r.s.track(u.ID)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock()()
	u, ok := r.s.t.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.t.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) ListByOrg(_ context.Context, orgID string) ([]*entity.User, error) {
	defer r.s.lock()()
	var out []*entity.User
	for _, u := range r.s.t.users {
		if u.OrgID == orgID {
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
