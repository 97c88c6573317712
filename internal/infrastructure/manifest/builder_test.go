package manifest

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

func fixture() (*entity.Organization, *entity.StockMovement) {
	org := &entity.Organization{ID: "org-1", Name: "Cooperativa Recicla", Slug: "recicla"}
	cat := "plástico"
	nf := "NF-123"
	grade := entity.GradeA
	mov := &entity.StockMovement{
		ID:            "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		LotID:         "lot-1",
		Type:          entity.MovementOut,
		QuantityKg:    decimal.RequireFromString("40.5"),
		DestinationID: strPtr("dest-1"),
		InvoiceRef:    &nf,
		MovedBy:       "user-1",
		MovedAt:       time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC),
		Lot: &entity.StockLot{
			ID: "lot-1", QualityGrade: &grade,
			MaterialType: &entity.MaterialType{ID: "m1", Name: "PET", Category: &cat},
		},
		Destination: &entity.Destination{ID: "dest-1", Name: "Indústria X", Type: entity.DestinationIndustria},
		Vehicle:     &entity.Vehicle{ID: "v1", Plate: "ABC1D23"},
	}
	return org, mov
}

func strPtr(s string) *string { return &s }

func TestBuild_ContenidoYDigest(t *testing.T) {
	b := NewBuilder()
	b.now = func() time.Time { return time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC) }
	org, mov := fixture()

	m, err := b.Build(org, mov)
	require.NoError(t, err)
	assert.Equal(t, "MTR-20240305-1B4E28BA", m.Number)
	assert.Same(t, mov, m.Movement)
	assert.Len(t, m.Digest, 64)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(m.XML))
	root := doc.Root()
	assert.Equal(t, "MTR", root.Tag)
	assert.Equal(t, m.Number, root.SelectAttrValue("Numero", ""))
	assert.Equal(t, "40.500", root.FindElement("./Residuo/Quantidade").Text())
	assert.Equal(t, "PET", root.FindElement("./Residuo/Material").Text())
	assert.Equal(t, "ABC1D23", root.FindElement("./Transportador/Placa").Text())
	assert.Equal(t, "NF-123", root.FindElement("./Movimentacao/NotaFiscal").Text())
	assert.Nil(t, root.FindElement("./Destinador/Endereco"))

	again, err := b.Build(org, mov)
	require.NoError(t, err)
	assert.Equal(t, m.Digest, again.Digest)

	d, err := Digest(m.XML)
	require.NoError(t, err)
	assert.Equal(t, m.Digest, d)
}

func TestBuild_SinDestinoOLote(t *testing.T) {
	org, mov := fixture()
	mov.Destination = nil
	_, err := NewBuilder().Build(org, mov)
	assert.Error(t, err)

	org, mov = fixture()
	mov.Lot = nil
	_, err = NewBuilder().Build(org, mov)
	assert.Error(t, err)
}
