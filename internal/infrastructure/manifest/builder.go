// Package manifest genera el Manifesto de Transporte de Resíduos (MTR) de una salida de estoque.
package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/coleta-api/internal/application/stock"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// Namespace del documento.
const Namespace = "urn:coleta:mtr:1.0"

var _ stock.ManifestBuilder = (*Builder)(nil)

// Builder implementa stock.ManifestBuilder con etree. El digest es SHA-256 de la forma C14N.
type Builder struct {
	now func() time.Time
}

// NewBuilder crea el generador.
func NewBuilder() *Builder { return &Builder{now: time.Now} }

// Number identificador del MTR: fecha de la salida + prefijo del id del movimiento.
func Number(mov *entity.StockMovement) string {
	id := strings.ReplaceAll(mov.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "MTR-" + mov.MovedAt.UTC().Format("20060102") + "-" + strings.ToUpper(id)
}

// Build arma el XML. Requiere lote con material y destino cargados.
func (b *Builder) Build(org *entity.Organization, mov *entity.StockMovement) (*stock.Manifest, error) {
	if org == nil || mov == nil {
		return nil, fmt.Errorf("manifest: organización y movimiento son obligatorios")
	}
	if mov.Lot == nil || mov.Lot.MaterialType == nil {
		return nil, fmt.Errorf("manifest: movimiento %s sin lote/material", mov.ID)
	}
	if mov.Destination == nil {
		return nil, fmt.Errorf("manifest: movimiento %s sin destino", mov.ID)
	}
	number := Number(mov)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("MTR")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("Numero", number)
	root.CreateAttr("Emissao", b.now().UTC().Format(time.RFC3339))

	gen := root.CreateElement("Gerador")
	gen.CreateElement("Id").SetText(org.ID)
	gen.CreateElement("Nome").SetText(org.Name)
	gen.CreateElement("Identificador").SetText(org.Slug)

	dst := root.CreateElement("Destinador")
	dst.CreateElement("Id").SetText(mov.Destination.ID)
	dst.CreateElement("Nome").SetText(mov.Destination.Name)
	dst.CreateElement("Tipo").SetText(mov.Destination.Type)
	optional(dst, "Endereco", mov.Destination.Address)

	if mov.Vehicle != nil {
		tr := root.CreateElement("Transportador")
		tr.CreateElement("Placa").SetText(mov.Vehicle.Plate)
		optional(tr, "Modelo", mov.Vehicle.Model)
	}

	res := root.CreateElement("Residuo")
	res.CreateElement("Material").SetText(mov.Lot.MaterialType.Name)
	optional(res, "Categoria", mov.Lot.MaterialType.Category)
	res.CreateElement("Lote").SetText(mov.LotID)
	if mov.Lot.QualityGrade != nil {
		res.CreateElement("Qualidade").SetText(string(*mov.Lot.QualityGrade))
	}
	q := res.CreateElement("Quantidade")
	q.CreateAttr("unidade", "kg")
	q.SetText(mov.QuantityKg.StringFixed(3))

	mv := root.CreateElement("Movimentacao")
	mv.CreateElement("Id").SetText(mov.ID)
	mv.CreateElement("Data").SetText(mov.MovedAt.UTC().Format(time.RFC3339))
	mv.CreateElement("Responsavel").SetText(mov.MovedBy)
	optional(mv, "NotaFiscal", mov.InvoiceRef)
	optional(mv, "Observacoes", mov.Notes)

	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("manifest: serializar: %w", err)
	}
	digest, err := Digest(raw)
	if err != nil {
		return nil, err
	}
	return &stock.Manifest{Number: number, XML: raw, Digest: digest, Movement: mov}, nil
}

// Digest SHA-256 hex de la forma canónica del elemento raíz (sin declaración XML).
func Digest(raw []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return "", fmt.Errorf("manifest: parsear: %w", err)
	}
	if doc.Root() == nil {
		return "", fmt.Errorf("manifest: documento sin raíz")
	}
	body := etree.NewDocument()
	body.SetRoot(doc.Root().Copy())
	rootBytes, err := body.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("manifest: serializar raíz: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(rootBytes))
	dec.Entity = map[string]string{}
	canon, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("manifest: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

func optional(parent *etree.Element, tag string, v *string) {
	if v != nil && *v != "" {
		parent.CreateElement(tag).SetText(*v)
	}
}
