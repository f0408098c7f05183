package base

import (
	"context"
	"testing"
)

type memStore struct {
	rows map[string]Autorizado
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]Autorizado)}
}

func (m *memStore) Lookup(_ context.Context, cpfDigits string) (Autorizado, error) {
	a, ok := m.rows[cpfDigits]
	if !ok {
		return Autorizado{}, ErrNotFound
	}
	return a, nil
}

func (m *memStore) BulkInsert(_ context.Context, cpfs []string) (int, error) {
	added := 0
	for _, digits := range cpfs {
		if _, ok := m.rows[digits]; ok {
			continue
		}
		m.rows[digits] = Autorizado{
			CPF:       digits,
			Nome:      PlaceholderNome(digits),
			Estado:    EstadoPadrao,
			TurmaCESD: TurmaPadrao,
		}
		added++
	}
	return added, nil
}

func (m *memStore) List(_ context.Context) ([]AutorizadoStatus, error) {
	var lista []AutorizadoStatus
	for _, a := range m.rows {
		lista = append(lista, AutorizadoStatus{Autorizado: a})
	}
	return lista, nil
}

func TestBulkImportIdempotente(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	raws := []string{"64527989104", "44223309404", "5501234567"}

	res, err := svc.BulkImport(ctx, raws)
	if err != nil {
		t.Fatalf("BulkImport: %v", err)
	}
	if res.Adicionados != 3 {
		t.Errorf("primeira importação: adicionados = %d, esperado 3", res.Adicionados)
	}

	res, err = svc.BulkImport(ctx, raws)
	if err != nil {
		t.Fatalf("BulkImport repetido: %v", err)
	}
	if res.Adicionados != 0 {
		t.Errorf("reimportação: adicionados = %d, esperado 0", res.Adicionados)
	}
	if res.Ignorados != 3 {
		t.Errorf("reimportação: ignorados = %d, esperado 3", res.Ignorados)
	}
	if len(store.rows) != 3 {
		t.Errorf("tamanho da base = %d, esperado 3", len(store.rows))
	}
}

func TestBulkImportRecuperaZeroInicial(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	if _, err := svc.BulkImport(context.Background(), []string{"5501234567"}); err != nil {
		t.Fatalf("BulkImport: %v", err)
	}

	a, err := store.Lookup(context.Background(), "05501234567")
	if err != nil {
		t.Fatalf("CPF com zero inicial não recuperado: %v", err)
	}
	if a.Nome != "TITULAR - 055...67" {
		t.Errorf("nome placeholder = %q", a.Nome)
	}
}

func TestBulkImportDescartaInvalidos(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	res, err := svc.BulkImport(context.Background(), []string{"", "---", "123456789012", "64527989104"})
	if err != nil {
		t.Fatalf("BulkImport: %v", err)
	}
	if res.Adicionados != 1 {
		t.Errorf("adicionados = %d, esperado 1", res.Adicionados)
	}
	if res.Ignorados != 3 {
		t.Errorf("ignorados = %d, esperado 3", res.Ignorados)
	}
}

func TestStaticRegistryLookup(t *testing.T) {
	reg := NewStaticRegistry([]string{"64527989104", "5501234567"})
	ctx := context.Background()

	if reg.Len() != 2 {
		t.Fatalf("Len = %d, esperado 2", reg.Len())
	}

	a, err := reg.Lookup(ctx, "05501234567")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a.Estado != EstadoPadrao || a.TurmaCESD != TurmaPadrao {
		t.Errorf("defaults ausentes: %+v", a)
	}

	if _, err := reg.Lookup(ctx, "11144477735"); err != ErrNotFound {
		t.Errorf("CPF fora da lista: err = %v, esperado ErrNotFound", err)
	}
}
