// Bulk CSV import of members. Column headers are matched by
// accent-insensitive aliases, so exports from the usual spreadsheets
// import without renaming anything. An optional friend-IDs column
// creates friendship edges after all rows are inserted.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/CelDarley/membro-api/internal/config"
	"github.com/CelDarley/membro-api/internal/db"
	"github.com/CelDarley/membro-api/internal/geo"
	"github.com/CelDarley/membro-api/internal/repository"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

// aliases maps each member field to the header spellings seen in the
// wild, normalized (lowercase, accents stripped).
var aliases = map[string][]string{
	"nome":                    {"membro", "nome"},
	"sexo":                    {"sexo", "genero", "genero biologico"},
	"concurso":                {"concurso", "classificacao"},
	"cargo_efetivo":           {"cargo efetivo", "cargo_efetivo", "cargo atual", "cargo"},
	"titularidade":            {"titularidade"},
	"email_pessoal":           {"email pessoal", "e-mail pessoal", "emailpessoal", "e mail pessoal"},
	"email_institucional":     {"email institucional", "e-mail institucional", "mail institucional", "email inst"},
	"cargo_especial":          {"cargo especial"},
	"telefone_unidade":        {"telefone unidade", "tel unidade", "telefone da unidade", "telefone trabalho"},
	"telefone_celular":        {"telefone celular", "celular", "telefone movel"},
	"unidade_lotacao":         {"unidade lotacao", "lotacao", "unidade"},
	"comarca_lotacao":         {"comarca lotacao", "comarca", "cidade"},
	"time_extraprofissionais": {"time de futebol e outros grupos extraprofissionais", "time extraprofissionais", "grupos extraprofissionais", "time de futebol"},
	"quantidade_filhos":       {"quantidade de filhos", "qtd filhos", "qtde filhos", "numero de filhos", "n filhos"},
	"nomes_filhos":            {"nome dos filhos", "nomes dos filhos"},
	"estado_origem":           {"estado de origem", "uf origem", "uf"},
	"academico":               {"academico"},
	"pretensao_carreira":      {"pretensao de movimentacao na carreira", "pretensao carreira"},
	"carreira_anterior":       {"carreira anterior"},
	"lideranca":               {"lideranca"},
	"grupos_identitarios":     {"grupos identitarios", "grupo identitarios"},
	"amigos_ids":              {"amigos no mp (ids)", "amigos mp (ids)", "amigos mp ids", "amigos (ids)"},
}

// headerMarkers detect which row is the header when the file starts
// with title or padding rows.
var headerMarkers = map[string]bool{
	"membro": true, "sexo": true, "telefone celular": true, "email": true,
	"e-mail": true, "concurso": true, "titularidade": true, "cargo efetivo": true,
	"comarca lotacao": true, "unidade lotacao": true, "telefone unidade": true,
	"cargo especial": true,
}

func main() {
	var (
		path     = flag.String("file", "", "CSV file to import")
		truncate = flag.Bool("truncate", false, "delete existing members before importing")
	)
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: importer -file membros.csv [-truncate]")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	if err := db.RunMigrations(cfg.DatabaseURL, "./internal/db/migrations"); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open sql DB: %v", err)
	}
	defer sqlDB.Close()
	sqlxDB := sqlx.NewDb(sqlDB, "pgx")

	ctx := context.Background()

	if *truncate {
		if _, err := sqlxDB.ExecContext(ctx, "DELETE FROM membro_amigos"); err != nil {
			log.Fatalf("Failed to clear friend edges: %v", err)
		}
		if _, err := sqlxDB.ExecContext(ctx, "DELETE FROM membros"); err != nil {
			log.Fatalf("Failed to clear members: %v", err)
		}
		log.Println("Existing members removed")
	}

	rows, err := readCSV(*path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *path, err)
	}

	headerIdx, dataRows := splitHeader(rows)
	if headerIdx == nil {
		log.Fatal("CSV file is empty")
	}

	memberRepo := repository.NewMemberRepository(sqlxDB)
	imported, err := importRows(ctx, memberRepo, headerIdx, dataRows)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Imported %d members", imported)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func normalize(s string) string {
	return strings.ToLower(geo.Normalize(s))
}

// splitHeader scans the first rows for one that looks like a header
// (three or more known column names) and maps each field to its index.
// When no row qualifies the first row is assumed to be the header.
func splitHeader(rows [][]string) (map[string]int, [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}
	scan := len(rows)
	if scan > 20 {
		scan = 20
	}
	for i := 0; i < scan; i++ {
		matches := 0
		for _, cell := range rows[i] {
			if headerMarkers[normalize(cell)] {
				matches++
			}
		}
		if matches >= 3 {
			return mapHeader(rows[i]), rows[i+1:]
		}
	}
	return mapHeader(rows[0]), rows[1:]
}

func mapHeader(header []string) map[string]int {
	idxByNorm := make(map[string]int, len(header))
	for col, cell := range header {
		idxByNorm[normalize(cell)] = col
	}
	headerIdx := make(map[string]int)
	for field, names := range aliases {
		for _, name := range names {
			if col, ok := idxByNorm[name]; ok {
				headerIdx[field] = col
				break
			}
		}
	}
	return headerIdx
}

func cell(row []string, headerIdx map[string]int, field string) string {
	col, ok := headerIdx[field]
	if !ok || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func importRows(ctx context.Context, memberRepo repository.MemberRepository, headerIdx map[string]int, rows [][]string) (int, error) {
	type pending struct {
		id        int64
		friendIDs []int64
	}
	var created []pending
	inserted := make(map[int64]bool)

	for _, row := range rows {
		m := &repository.Membro{}
		empty := true
		for field := range aliases {
			if field == "amigos_ids" || field == "email_institucional" {
				continue
			}
			value := cell(row, headerIdx, field)
			if value == "" {
				continue
			}
			empty = false
			assign(m, field, value)
		}
		// Personal email falls back to the institutional one.
		if m.EmailPessoal == nil {
			if v := cell(row, headerIdx, "email_institucional"); v != "" {
				m.EmailPessoal = &v
				empty = false
			}
		}
		if empty {
			continue
		}

		if err := memberRepo.Create(ctx, m); err != nil {
			return len(created), err
		}
		inserted[m.ID] = true
		created = append(created, pending{id: m.ID, friendIDs: parseFriendIDs(cell(row, headerIdx, "amigos_ids"))})
	}

	// Friend edges only after every row exists, so forward references
	// inside the file resolve.
	for _, p := range created {
		var valid []int64
		for _, fid := range p.friendIDs {
			if fid == p.id {
				continue
			}
			if inserted[fid] {
				valid = append(valid, fid)
				continue
			}
			existing, err := memberRepo.FindByID(ctx, fid)
			if err != nil {
				return len(created), err
			}
			if existing != nil {
				valid = append(valid, fid)
			}
		}
		if len(valid) == 0 {
			continue
		}
		if err := memberRepo.SyncFriends(ctx, p.id, valid, nil); err != nil {
			return len(created), err
		}
	}
	return len(created), nil
}

func assign(m *repository.Membro, field, value string) {
	switch field {
	case "quantidade_filhos":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			n := int(f)
			m.QuantidadeFilhos = &n
		}
	case "estado_origem":
		uf := strings.ToUpper(value)
		if runes := []rune(uf); len(runes) > 2 {
			uf = string(runes[:2])
		}
		m.EstadoOrigem = &uf
	case "nome":
		m.Nome = &value
	case "sexo":
		m.Sexo = &value
	case "concurso":
		m.Concurso = &value
	case "cargo_efetivo":
		m.CargoEfetivo = &value
	case "titularidade":
		m.Titularidade = &value
	case "email_pessoal":
		m.EmailPessoal = &value
	case "cargo_especial":
		m.CargoEspecial = &value
	case "telefone_unidade":
		m.TelefoneUnidade = &value
	case "telefone_celular":
		m.TelefoneCelular = &value
	case "unidade_lotacao":
		m.UnidadeLotacao = &value
	case "comarca_lotacao":
		m.ComarcaLotacao = &value
	case "time_extraprofissionais":
		m.TimeExtraprofissionais = &value
	case "nomes_filhos":
		m.NomesFilhos = &value
	case "academico":
		m.Academico = &value
	case "pretensao_carreira":
		m.PretensaoCarreira = &value
	case "carreira_anterior":
		m.CarreiraAnterior = &value
	case "lideranca":
		m.Lideranca = &value
	case "grupos_identitarios":
		m.GruposIdentitarios = &value
	}
}

// parseFriendIDs accepts comma, semicolon or pipe separated numeric IDs.
func parseFriendIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, ";", ",")
	raw = strings.ReplaceAll(raw, "|", ",")

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
