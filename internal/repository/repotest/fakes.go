// Package repotest provides in-memory repository fakes for service and
// handler tests. The fakes mirror the persistence contract, including the
// unique index on products.qr_code and gorm's not-found/duplicate sentinels.
package repotest

import (
	"sync"
	"time"

	"ubt-tracker/internal/model"
	"ubt-tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FakeUserRepo implements repository.UserRepository.
type FakeUserRepo struct {
	mu    sync.Mutex
	Users []*model.User
}

var _ repository.UserRepository = (*FakeUserRepo)(nil)

func NewFakeUserRepo() *FakeUserRepo { return &FakeUserRepo{} }

func (r *FakeUserRepo) FindByUsername(username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.Users = append(r.Users, &copied)
	return nil
}

func (r *FakeUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.ID == userID {
			u.Password = hashedPassword
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeUserRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.Users)), nil
}

// FakeProductRepo implements repository.ProductRepository.
type FakeProductRepo struct {
	mu       sync.Mutex
	Products []*model.Product

	// FailAfter makes Create fail with CreateErr once this many creates
	// succeeded. Zero disables the failure injection.
	FailAfter int
	CreateErr error
	created   int
}

var _ repository.ProductRepository = (*FakeProductRepo)(nil)

func NewFakeProductRepo() *FakeProductRepo { return &FakeProductRepo{} }

func (r *FakeProductRepo) Create(product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAfter > 0 && r.created >= r.FailAfter {
		return r.CreateErr
	}
	for _, p := range r.Products {
		if p.QRCode == product.QRCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	copied := *product
	r.Products = append(r.Products, &copied)
	r.created++
	return nil
}

func (r *FakeProductRepo) FindAll() ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.Products))
	for _, p := range r.Products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *FakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Products {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeProductRepo) FindByQRCode(code string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Products {
		if p.QRCode == code {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeProductRepo) FindByPartnerID(partnerID uuid.UUID) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.Products {
		if p.PartnerID == partnerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *FakeProductRepo) UpdateCondition(id uuid.UUID, condition model.ProductCondition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Products {
		if p.ID == id {
			p.Condition = condition
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeProductRepo) MarkScanned(id uuid.UUID, scannedBy string, scannedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Products {
		if p.ID == id {
			p.Status = model.StatusScanned
			at := scannedAt
			by := scannedBy
			p.ScannedAt = &at
			p.ScannedBy = &by
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeProductRepo) CountByStatus(status model.ProductStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.Products {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *FakeProductRepo) CountByCondition(condition model.ProductCondition) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.Products {
		if p.Condition == condition {
			count++
		}
	}
	return count, nil
}

func (r *FakeProductRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.Products)), nil
}

// FakePartnerRepo implements repository.PartnerRepository. It holds a
// reference to the product fake so DeleteCascade behaves like the real
// two-step transactional delete.
type FakePartnerRepo struct {
	mu       sync.Mutex
	Partners []*model.Partner
	Products *FakeProductRepo
}

var _ repository.PartnerRepository = (*FakePartnerRepo)(nil)

func NewFakePartnerRepo(products *FakeProductRepo) *FakePartnerRepo {
	return &FakePartnerRepo{Products: products}
}

func (r *FakePartnerRepo) Create(partner *model.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if partner.ID == uuid.Nil {
		partner.ID = uuid.New()
	}
	partner.CreatedAt = time.Now()
	partner.UpdatedAt = partner.CreatedAt
	copied := *partner
	r.Partners = append(r.Partners, &copied)
	return nil
}

func (r *FakePartnerRepo) FindAll() ([]model.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Partner, 0, len(r.Partners))
	for _, p := range r.Partners {
		out = append(out, *p)
	}
	return out, nil
}

func (r *FakePartnerRepo) FindByID(id uuid.UUID) (*model.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Partners {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakePartnerRepo) Update(partner *model.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.Partners {
		if p.ID == partner.ID {
			copied := *partner
			copied.UpdatedAt = time.Now()
			r.Partners[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakePartnerRepo) DeleteCascade(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// children first
	if r.Products != nil {
		r.Products.mu.Lock()
		kept := r.Products.Products[:0]
		for _, p := range r.Products.Products {
			if p.PartnerID != id {
				kept = append(kept, p)
			}
		}
		r.Products.Products = kept
		r.Products.mu.Unlock()
	}

	for i, p := range r.Partners {
		if p.ID == id {
			r.Partners = append(r.Partners[:i], r.Partners[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakePartnerRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.Partners)), nil
}

// FakeScanLogRepo implements repository.ScanLogRepository.
type FakeScanLogRepo struct {
	mu      sync.Mutex
	Entries []*model.ScanLog
}

var _ repository.ScanLogRepository = (*FakeScanLogRepo)(nil)

func NewFakeScanLogRepo() *FakeScanLogRepo { return &FakeScanLogRepo{} }

func (r *FakeScanLogRepo) Create(entry *model.ScanLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	copied := *entry
	r.Entries = append(r.Entries, &copied)
	return nil
}

func (r *FakeScanLogRepo) FindRecent(limit int) ([]model.ScanLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ScanLog, 0, limit)
	for i := len(r.Entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.Entries[i])
	}
	return out, nil
}

func (r *FakeScanLogRepo) CountSince(since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, e := range r.Entries {
		if !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
