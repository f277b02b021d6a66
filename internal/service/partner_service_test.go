package service

import (
	"testing"

	"ubt-tracker/internal/model"
	"ubt-tracker/internal/repository/repotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartnerFixture() (*repotest.FakeProductRepo, *repotest.FakePartnerRepo, PartnerService, ProductService) {
	productRepo := repotest.NewFakeProductRepo()
	partnerRepo := repotest.NewFakePartnerRepo(productRepo)
	return productRepo, partnerRepo,
		NewPartnerService(partnerRepo, productRepo),
		NewProductService(productRepo, partnerRepo, nil)
}

func partnerRequest() *PartnerRequest {
	return &PartnerRequest{
		Name:          "RS Harapan Bunda",
		Address:       "Jl. Merdeka No. 10",
		Province:      "Jawa Barat",
		Phone:         "+62-22-5550002",
		Email:         "info@harapanbunda.example",
		ContactPerson: "dr. Budi",
	}
}

func TestCreatePartner(t *testing.T) {
	_, _, partners, _ := newPartnerFixture()

	partner, err := partners.Create(partnerRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, partner.ID)
	assert.True(t, partner.Active)
	assert.Equal(t, "Jawa Barat", partner.Province)
}

func TestCreatePartnerRejectsUnknownProvince(t *testing.T) {
	_, _, partners, _ := newPartnerFixture()

	req := partnerRequest()
	req.Province = "Atlantis"
	_, err := partners.Create(req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePartnerRejectsMissingFields(t *testing.T) {
	_, _, partners, _ := newPartnerFixture()

	req := partnerRequest()
	req.ContactPerson = ""
	_, err := partners.Create(req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePartnerKeepsProductsUntouched(t *testing.T) {
	productRepo, _, partners, products := newPartnerFixture()

	partner, err := partners.Create(partnerRequest())
	require.NoError(t, err)

	result, err := products.CreateBatch(batchRequest(partner.ID, 2), "admin-id")
	require.NoError(t, err)

	req := partnerRequest()
	req.Name = "RS Harapan Bunda Baru"
	req.Province = "DKI Jakarta"
	updated, err := partners.Update(partner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "RS Harapan Bunda Baru", updated.Name)

	for _, p := range result.Products {
		stored, err := productRepo.FindByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.QRCode, stored.QRCode)
		assert.Equal(t, partner.ID, stored.PartnerID)
	}
}

func TestUpdatePartnerNotFound(t *testing.T) {
	_, _, partners, _ := newPartnerFixture()

	_, err := partners.Update(uuid.New(), partnerRequest())
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

func TestDeletePartnerCascadesToProducts(t *testing.T) {
	productRepo, _, partners, products := newPartnerFixture()

	partner, err := partners.Create(partnerRequest())
	require.NoError(t, err)

	other, err := partners.Create(partnerRequest())
	require.NoError(t, err)

	_, err = products.CreateBatch(batchRequest(partner.ID, 4), "admin-id")
	require.NoError(t, err)
	_, err = products.CreateBatch(batchRequest(other.ID, 2), "admin-id")
	require.NoError(t, err)

	require.NoError(t, partners.Delete(partner.ID))

	orphans, err := products.GetByPartnerID(partner.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans, "no products may reference a deleted partner")

	// the other partner's units survive
	remaining, err := products.GetByPartnerID(other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	count, _ := productRepo.Count()
	assert.EqualValues(t, 2, count)
}

func TestDeletePartnerNotFound(t *testing.T) {
	_, _, partners, _ := newPartnerFixture()

	err := partners.Delete(uuid.New())
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

func TestGetAllIncludesProductDetails(t *testing.T) {
	_, _, partners, products := newPartnerFixture()

	partner, err := partners.Create(partnerRequest())
	require.NoError(t, err)
	_, err = products.CreateBatch(batchRequest(partner.ID, 3), "admin-id")
	require.NoError(t, err)

	list, err := partners.GetAll()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].ProductCount)
	assert.Len(t, list[0].ProductDetails, 3)
	for _, p := range list[0].ProductDetails {
		assert.Equal(t, model.StatusActive, p.Status)
	}
}
