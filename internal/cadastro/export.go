package cadastro

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aafab/recadastro/internal/cpf"
)

// ExportFilename é o nome sugerido no Content-Disposition.
const ExportFilename = "cadastros_aafab.xlsx"

const exportSheet = "Cadastros AAFAB"

var exportColumns = []struct {
	header string
	width  float64
}{
	{"CPF", 15},
	{"Nome", 30},
	{"Email", 25},
	{"Telefone", 15},
	{"Estado", 10},
	{"Bairro", 15},
	{"Cidade", 15},
	{"Endereço", 40},
	{"Turma", 15},
	{"Certidão de Óbito", 20},
	{"Data Envio", 20},
}

// Exportar gera a planilha de cadastros, do envio mais recente para o
// mais antigo. Projeção somente leitura.
func (s *Service) Exportar(ctx context.Context) ([]byte, error) {
	cadastros, err := s.Listar(ctx, "")
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headers := make([]any, len(exportColumns))
	for i, col := range exportColumns {
		headers[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, name, name, col.width); err != nil {
			return nil, err
		}
	}
	if err := f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, c := range cadastros {
		obito := ""
		if c.CertidaoObito != nil {
			obito = *c.CertidaoObito
		}
		row := []any{
			cpf.Format(c.CPF),
			c.Nome,
			c.Email,
			cpf.FormatTelefone(c.Telefone),
			c.Estado,
			c.Bairro,
			c.Cidade,
			c.Endereco,
			c.TurmaCESD,
			obito,
			c.DataEnvio.Local().Format("02/01/2006 15:04:05"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
