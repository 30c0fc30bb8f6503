package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/gestion-pro/internal/application/dto"
	"github.com/tu-usuario/gestion-pro/internal/application/sales"
	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/pricing"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Embeben la interfaz para no implementar métodos que el
// caso de uso no toca (si algo inesperado los llama, el test hace panic).
// ──────────────────────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers map[string]*entity.Customer
}

func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.customers[id], nil
}

type fakeSupplierRepo struct {
	repository.SupplierRepository
	suppliers map[string]*entity.Supplier
}

func (f *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return f.suppliers[id], nil
}

type fakeProductRepo struct {
	repository.ProductRepository
	products map[string]*entity.Product
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}

type fakeWarehouseRepo struct {
	repository.WarehouseRepository
	warehouses map[string]*entity.Warehouse
}

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.warehouses[id], nil
}

type fakeDocRepo struct {
	repository.DocumentRepository
	docs  map[string]*entity.Document
	lines map[string][]*entity.DocumentLine
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{
		docs:  make(map[string]*entity.Document),
		lines: make(map[string][]*entity.DocumentLine),
	}
}

func (f *fakeDocRepo) Create(doc *entity.Document) error {
	cp := *doc
	f.docs[doc.ID] = &cp
	return nil
}

func (f *fakeDocRepo) CreateLine(line *entity.DocumentLine) error {
	cp := *line
	f.lines[line.DocumentID] = append(f.lines[line.DocumentID], &cp)
	return nil
}

func (f *fakeDocRepo) GetByID(id string) (*entity.Document, error) {
	return f.docs[id], nil
}

func (f *fakeDocRepo) GetLinesByDocumentID(documentID string) ([]*entity.DocumentLine, error) {
	return f.lines[documentID], nil
}

func (f *fakeDocRepo) UpdateStatus(id, status string) error {
	doc, ok := f.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	return nil
}

// snapshot/restore simulan el rollback de la transacción.
func (f *fakeDocRepo) snapshot() (map[string]*entity.Document, map[string][]*entity.DocumentLine) {
	docs := make(map[string]*entity.Document, len(f.docs))
	for k, v := range f.docs {
		cp := *v
		docs[k] = &cp
	}
	lines := make(map[string][]*entity.DocumentLine, len(f.lines))
	for k, v := range f.lines {
		lines[k] = append([]*entity.DocumentLine(nil), v...)
	}
	return docs, lines
}

type fakeSeqRepo struct {
	counters map[string]int64
}

func (f *fakeSeqRepo) Next(companyID, docType string) (int64, error) {
	if f.counters == nil {
		f.counters = make(map[string]int64)
	}
	key := companyID + "/" + docType
	f.counters[key]++
	return f.counters[key], nil
}

// movementCall registra una llamada al mover de inventario.
type movementCall struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TxID      string
}

type fakeMover struct {
	outCalls []movementCall
	inCalls  []movementCall
	outErr   error // si no es nil, RegisterOUTInTx falla (ej: sin stock)
}

func (f *fakeMover) RegisterOUTInTx(
	_ repository.InventoryMovementRepository,
	_ repository.StockRepository,
	_ *entity.Product,
	productID, _, _ string,
	quantity decimal.Decimal,
	_ time.Time,
	transactionID string,
) error {
	if f.outErr != nil {
		return f.outErr
	}
	f.outCalls = append(f.outCalls, movementCall{ProductID: productID, Quantity: quantity, TxID: transactionID})
	return nil
}

func (f *fakeMover) RegisterINInTx(
	_ repository.InventoryMovementRepository,
	_ repository.StockRepository,
	_ repository.ProductRepository,
	_ *entity.Product,
	productID, _, _ string,
	quantity, unitCost decimal.Decimal,
	_ time.Time,
	transactionID string,
) error {
	f.inCalls = append(f.inCalls, movementCall{ProductID: productID, Quantity: quantity, UnitCost: unitCost, TxID: transactionID})
	return nil
}

// fakeTxRunner ejecuta el callback con los fakes y restaura el estado del
// repositorio de documentos si el callback falla (rollback).
type fakeTxRunner struct {
	docRepo     *fakeDocRepo
	productRepo *fakeProductRepo
	seqRepo     *fakeSeqRepo
}

func (f *fakeTxRunner) RunDocument(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	docRepo repository.DocumentRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	docs, lines := f.docRepo.snapshot()
	if err := fn(nil, nil, f.productRepo, f.docRepo, f.seqRepo); err != nil {
		f.docRepo.docs = docs
		f.docRepo.lines = lines
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	coID   = "co-1"
	userID = "user-1"
	whID   = "wh-1"
)

type fixture struct {
	uc      *sales.DocumentUseCase
	docRepo *fakeDocRepo
	mover   *fakeMover
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	docRepo := newFakeDocRepo()
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		"p1": {ID: "p1", CompanyID: coID, SKU: "SKU-1", Name: "Producto Uno",
			Price: dec("10.00"), Cost: dec("6.00")},
		"p2": {ID: "p2", CompanyID: coID, SKU: "SKU-2", Name: "Producto Dos",
			Price: dec("30.00"), Cost: dec("18.00")},
	}}
	mover := &fakeMover{}
	runner := &fakeTxRunner{docRepo: docRepo, productRepo: productRepo, seqRepo: &fakeSeqRepo{}}

	uc := sales.NewDocumentUseCase(
		runner, mover,
		&fakeCustomerRepo{customers: map[string]*entity.Customer{
			"cust-1": {ID: "cust-1", CompanyID: coID, Name: "Cliente Uno"},
			"cust-2": {ID: "cust-2", CompanyID: "otra-empresa", Name: "Cliente Ajeno"},
		}},
		&fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
			"sup-1": {ID: "sup-1", CompanyID: coID, Name: "Proveedor Uno"},
		}},
		productRepo,
		&fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
			whID: {ID: whID, CompanyID: coID, Name: "Bodega Principal"},
		}},
		docRepo,
		sales.TaxConfig{
			Policy:       pricing.DefaultTaxPolicy(),
			FallbackRate: pricing.DefaultFallbackRate,
		},
	)
	return &fixture{uc: uc, docRepo: docRepo, mover: mover}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Cotizacion_TotalesYConsecutivo(t *testing.T) {
	f := newFixture(t)

	in := dto.CreateDocumentRequest{
		PartyID:    "cust-1",
		DutyStatus: pricing.DutyStatusDDPNacional,
		Discount:   &dto.DiscountDTO{Kind: pricing.DiscountPercentage, Value: dec("10")},
		Items: []dto.DocumentItemRequest{
			{ProductID: "p1", Quantity: 10, UnitPrice: dec("10.00")},
			{ProductID: "p2", Quantity: 5, UnitPrice: dec("30.00")},
		},
	}
	resp, err := f.uc.Create(context.Background(), coID, userID, entity.DocTypeQuotation, in)
	require.NoError(t, err)

	// 250 − 10% = 225; 225 × 0.17 = 38.25; total 263.25
	assert.True(t, dec("250.00").Equal(resp.Subtotal), "subtotal: %s", resp.Subtotal)
	assert.True(t, dec("25.00").Equal(resp.DiscountAmount), "descuento: %s", resp.DiscountAmount)
	assert.True(t, dec("225.00").Equal(resp.NetAmount), "neto: %s", resp.NetAmount)
	assert.True(t, dec("38.25").Equal(resp.TaxAmount), "impuesto: %s", resp.TaxAmount)
	assert.True(t, dec("263.25").Equal(resp.GrandTotal), "total: %s", resp.GrandTotal)

	assert.Equal(t, entity.DocStatusDraft, resp.Status, "una cotización nace en borrador")
	assert.Equal(t, "COT", resp.Prefix)
	assert.Equal(t, int64(1), resp.Number)
	assert.Equal(t, "Cliente Uno", resp.PartyName)
	assert.Len(t, resp.Lines, 2)
	assert.Empty(t, f.mover.outCalls, "una cotización no mueve inventario")

	// El consecutivo avanza por empresa+tipo
	resp2, err := f.uc.Create(context.Background(), coID, userID, entity.DocTypeQuotation, in)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp2.Number)
}

func TestCreate_Factura_DescuentaInventario(t *testing.T) {
	f := newFixture(t)

	in := dto.CreateDocumentRequest{
		PartyID:     "cust-1",
		WarehouseID: whID,
		Items: []dto.DocumentItemRequest{
			{ProductID: "p1", Quantity: 3, UnitPrice: dec("10.00")},
			{ProductID: "p2", Quantity: 1, UnitPrice: dec("30.00")},
		},
	}
	resp, err := f.uc.Create(context.Background(), coID, userID, entity.DocTypeInvoice, in)
	require.NoError(t, err)

	assert.Equal(t, entity.DocStatusIssued, resp.Status, "la factura nace emitida")
	assert.Equal(t, "FAC", resp.Prefix)

	require.Len(t, f.mover.outCalls, 2, "una salida por línea")
	assert.Equal(t, "p1", f.mover.outCalls[0].ProductID)
	assert.True(t, dec("3").Equal(f.mover.outCalls[0].Quantity))
	assert.Equal(t, resp.ID, f.mover.outCalls[0].TxID, "el movimiento referencia la factura")
}

func TestCreate_Factura_SinStock_Rollback(t *testing.T) {
	f := newFixture(t)
	f.mover.outErr = domain.ErrInsufficientStock

	in := dto.CreateDocumentRequest{
		PartyID:     "cust-1",
		WarehouseID: whID,
		Items:       []dto.DocumentItemRequest{{ProductID: "p1", Quantity: 99}},
	}
	_, err := f.uc.Create(context.Background(), coID, userID, entity.DocTypeInvoice, in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, f.docRepo.docs, "sin stock la factura no debe persistirse")
}

func TestCreate_FacturaSinBodega_Rechazada(t *testing.T) {
	f := newFixture(t)

	in := dto.CreateDocumentRequest{
		PartyID: "cust-1",
		Items:   []dto.DocumentItemRequest{{ProductID: "p1", Quantity: 1}},
	}
	_, err := f.uc.Create(context.Background(), coID, userID, entity.DocTypeInvoice, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "una factura requiere bodega")
}

func TestCreate_ClienteDeOtraEmpresa_Prohibido(t *testing.T) {
	f := newFixture(t)

	in := dto.CreateDocumentRequest{
		PartyID: "cust-2",
		Items:   []dto.DocumentItemRequest{{ProductID: "p1", Quantity: 1}},
	}
	_, err := f.uc.Create(context.Background(), coID, userID, entity.DocTypeQuotation, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_PrecioPorDefecto(t *testing.T) {
	f := newFixture(t)

	// Venta sin precio: toma el precio de catálogo (10.00)
	in := dto.CreateDocumentRequest{
		PartyID: "cust-1",
		Items:   []dto.DocumentItemRequest{{ProductID: "p1", Quantity: 2}},
	}
	resp, err := f.uc.Create(context.Background(), coID, userID, entity.DocTypeQuotation, in)
	require.NoError(t, err)
	assert.True(t, dec("10.00").Equal(resp.Lines[0].UnitPrice))

	// Compra sin precio: toma el costo promedio (6.00)
	inPO := dto.CreateDocumentRequest{
		PartyID: "sup-1",
		Items:   []dto.DocumentItemRequest{{ProductID: "p1", Quantity: 2}},
	}
	respPO, err := f.uc.Create(context.Background(), coID, userID, entity.DocTypePurchaseOrder, inPO)
	require.NoError(t, err)
	assert.True(t, dec("6.00").Equal(respPO.Lines[0].UnitPrice))
	assert.Equal(t, "OC", respPO.Prefix)
}

func TestConvertQuotation_CopiaSnapshotSinRecalcular(t *testing.T) {
	f := newFixture(t)

	// Cotización aceptada con un snapshot que NO coincide con la política
	// vigente: la conversión debe copiarlo tal cual.
	quotation := &entity.Document{
		ID: "q-1", CompanyID: coID, Type: entity.DocTypeQuotation,
		PartyID: "cust-1", Prefix: "COT", Number: 7,
		Status: entity.DocStatusAccepted, Date: time.Now(),
		TaxRate:  dec("0.05"),
		Subtotal: dec("100.00"), DiscountAmount: dec("0"),
		NetAmount: dec("100.00"), TaxAmount: dec("5.00"), GrandTotal: dec("105.00"),
	}
	require.NoError(t, f.docRepo.Create(quotation))
	require.NoError(t, f.docRepo.CreateLine(&entity.DocumentLine{
		ID: "ql-1", DocumentID: "q-1", ProductID: "p1",
		Quantity: 10, UnitPrice: dec("10.00"), LineTotal: dec("100.00"),
	}))

	invoice, err := f.uc.ConvertQuotation(context.Background(), coID, userID, "q-1", whID)
	require.NoError(t, err)

	assert.Equal(t, entity.DocTypeInvoice, invoice.Type)
	assert.Equal(t, entity.DocStatusIssued, invoice.Status)
	assert.Equal(t, "q-1", invoice.SourceDocID, "la factura referencia la cotización origen")
	assert.True(t, dec("105.00").Equal(invoice.GrandTotal), "el total se copia sin recalcular")
	assert.True(t, dec("0.05").Equal(invoice.TaxRate), "la tasa histórica se conserva")

	stored, _ := f.docRepo.GetByID("q-1")
	assert.Equal(t, entity.DocStatusConverted, stored.Status)

	require.Len(t, f.mover.outCalls, 1, "la factura de la conversión sí descuenta stock")
	assert.True(t, dec("10").Equal(f.mover.outCalls[0].Quantity))
}

func TestConvertQuotation_NoAceptada_Rechazada(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.docRepo.Create(&entity.Document{
		ID: "q-2", CompanyID: coID, Type: entity.DocTypeQuotation,
		PartyID: "cust-1", Status: entity.DocStatusIssued,
	}))

	_, err := f.uc.ConvertQuotation(context.Background(), coID, userID, "q-2", whID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"solo una cotización aceptada se convierte")
}

func TestCreateDeliveryNote_LineasSinValorYNoMueveStock(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.docRepo.Create(&entity.Document{
		ID: "inv-1", CompanyID: coID, Type: entity.DocTypeInvoice,
		PartyID: "cust-1", Status: entity.DocStatusIssued,
		GrandTotal: dec("263.25"),
	}))
	require.NoError(t, f.docRepo.CreateLine(&entity.DocumentLine{
		ID: "il-1", DocumentID: "inv-1", ProductID: "p1",
		Quantity: 4, UnitPrice: dec("10.00"), LineTotal: dec("40.00"),
	}))

	note, err := f.uc.CreateDeliveryNote(context.Background(), coID, userID, "inv-1")
	require.NoError(t, err)

	assert.Equal(t, entity.DocTypeDeliveryNote, note.Type)
	assert.Equal(t, "REM", note.Prefix)
	assert.Equal(t, "inv-1", note.SourceDocID)
	require.Len(t, note.Lines, 1)
	assert.Equal(t, int64(4), note.Lines[0].Quantity, "la remisión conserva cantidades")
	assert.True(t, note.Lines[0].UnitPrice.IsZero(), "la remisión no lleva valores")
	assert.True(t, note.GrandTotal.IsZero())
	assert.Empty(t, f.mover.outCalls, "el stock ya salió con la factura")
}

func TestCreateDeliveryNote_FacturaCancelada_Rechazada(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.docRepo.Create(&entity.Document{
		ID: "inv-2", CompanyID: coID, Type: entity.DocTypeInvoice,
		PartyID: "cust-1", Status: entity.DocStatusCancelled,
	}))

	_, err := f.uc.CreateDeliveryNote(context.Background(), coID, userID, "inv-2")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateStatus_RecibirOrdenDeCompra(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.docRepo.Create(&entity.Document{
		ID: "po-1", CompanyID: coID, Type: entity.DocTypePurchaseOrder,
		PartyID: "sup-1", Status: entity.DocStatusIssued,
	}))
	require.NoError(t, f.docRepo.CreateLine(&entity.DocumentLine{
		ID: "pol-1", DocumentID: "po-1", ProductID: "p1",
		Quantity: 20, UnitPrice: dec("5.50"), LineTotal: dec("110.00"),
	}))

	err := f.uc.UpdateStatus(context.Background(), coID, userID, "po-1",
		dto.UpdateDocumentStatusRequest{Status: entity.DocStatusReceived, WarehouseID: whID})
	require.NoError(t, err)

	stored, _ := f.docRepo.GetByID("po-1")
	assert.Equal(t, entity.DocStatusReceived, stored.Status)

	require.Len(t, f.mover.inCalls, 1, "una entrada por línea recibida")
	assert.True(t, dec("20").Equal(f.mover.inCalls[0].Quantity))
	assert.True(t, dec("5.50").Equal(f.mover.inCalls[0].UnitCost),
		"el costo de entrada es el precio de la línea")
}

func TestUpdateStatus_RecibirSinBodega_Rechazado(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.docRepo.Create(&entity.Document{
		ID: "po-2", CompanyID: coID, Type: entity.DocTypePurchaseOrder,
		PartyID: "sup-1", Status: entity.DocStatusIssued,
	}))

	err := f.uc.UpdateStatus(context.Background(), coID, userID, "po-2",
		dto.UpdateDocumentStatusRequest{Status: entity.DocStatusReceived})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_TransicionInvalida(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.docRepo.Create(&entity.Document{
		ID: "inv-3", CompanyID: coID, Type: entity.DocTypeInvoice,
		PartyID: "cust-1", Status: entity.DocStatusPaid,
	}))

	err := f.uc.UpdateStatus(context.Background(), coID, userID, "inv-3",
		dto.UpdateDocumentStatusRequest{Status: entity.DocStatusIssued})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"una factura pagada no vuelve a emitida")
}
