// Package report renders a PDF snapshot of a member's combined data.
package report

import (
	"bytes"

	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/go-pdf/fpdf"
)

// Kinship is one degree-typed relation line on the report.
type Kinship struct {
	Degree    string
	OtherName string
}

// MemberReport bundles everything the PDF shows.
type MemberReport struct {
	Member   *repository.Membro
	History  []*repository.HistoryEntry
	Friends  []*repository.Membro
	Kinships []Kinship
}

var degreeLabels = map[string]string{
	"spouse":  "Cônjuge",
	"parent":  "Pai/Mãe",
	"child":   "Filho(a)",
	"sibling": "Irmão(ã)",
}

// Render produces the PDF bytes for one member.
func Render(r *MemberReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Ficha de Membro"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Ficha de Membro"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(deref(r.Member.Nome)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeField(pdf, tr, "Sexo", r.Member.Sexo)
	writeField(pdf, tr, "Concurso", r.Member.Concurso)
	writeField(pdf, tr, "Cargo efetivo", r.Member.CargoEfetivo)
	writeField(pdf, tr, "Titularidade", r.Member.Titularidade)
	writeField(pdf, tr, "Cargo especial", r.Member.CargoEspecial)
	writeField(pdf, tr, "E-mail pessoal", r.Member.EmailPessoal)
	writeField(pdf, tr, "Telefone celular", r.Member.TelefoneCelular)
	writeField(pdf, tr, "Telefone unidade", r.Member.TelefoneUnidade)
	writeField(pdf, tr, "Unidade de lotação", r.Member.UnidadeLotacao)
	writeField(pdf, tr, "Comarca de lotação", r.Member.ComarcaLotacao)
	writeField(pdf, tr, "Estado de origem", r.Member.EstadoOrigem)
	writeField(pdf, tr, "Acadêmico", r.Member.Academico)
	writeField(pdf, tr, "Carreira anterior", r.Member.CarreiraAnterior)
	writeField(pdf, tr, "Pretensão de carreira", r.Member.PretensaoCarreira)
	writeField(pdf, tr, "Liderança", r.Member.Lideranca)
	writeField(pdf, tr, "Grupos identitários", r.Member.GruposIdentitarios)
	writeField(pdf, tr, "Observação", r.Member.Observacao)

	if len(r.History) > 0 {
		section(pdf, tr, "Histórico de lotação")
		for _, h := range r.History {
			line := ""
			if h.DataMovimentacao != nil {
				line = h.DataMovimentacao.Format("2006-01-02") + "  "
			}
			line += deref(h.UnidadeLotacao)
			if h.ComarcaLotacao != nil {
				line += " - " + *h.ComarcaLotacao
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
		}
	}

	if len(r.Kinships) > 0 {
		section(pdf, tr, "Relacionamentos")
		for _, k := range r.Kinships {
			label := degreeLabels[k.Degree]
			if label == "" {
				label = k.Degree
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, tr(label+": "+k.OtherName), "", "L", false)
		}
	}

	if len(r.Friends) > 0 {
		section(pdf, tr, "Amigos")
		for _, f := range r.Friends {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, tr(deref(f.Nome)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
}

func writeField(pdf *fpdf.Fpdf, tr func(string) string, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, tr(*value), "", "L", false)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
