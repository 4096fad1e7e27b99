package seed

import (
	"context"
	"log"

	"github.com/CelDarley/membro-api/internal/repository"
)

// SeedDemo creates a handful of demo members with friend edges for
// development. It is a no-op when members already exist.
func SeedDemo(repos *repository.Repositories) {
	ctx := context.Background()

	_, total, err := repos.MemberRepo.Find(ctx, &repository.MemberFilter{}, 1, 0)
	if err != nil {
		log.Printf("[Seed] Failed to check existing members: %v", err)
		return
	}
	if total > 0 {
		log.Println("[Seed] Members already exist, skipping...")
		return
	}

	log.Println("[Seed] Creating demo members...")

	ana := &repository.Membro{
		Nome:           ptr("Ana Carolina Souza"),
		Sexo:           ptr("Feminino"),
		Concurso:       ptr("LVII"),
		CargoEfetivo:   ptr("Promotor de Justiça"),
		Titularidade:   ptr("Titular"),
		UnidadeLotacao: ptr("1ª Promotoria de Justiça"),
		ComarcaLotacao: ptr("Belo Horizonte"),
		EstadoOrigem:   ptr("MG"),
	}
	bruno := &repository.Membro{
		Nome:           ptr("Bruno Lima Castro"),
		Sexo:           ptr("Masculino"),
		Concurso:       ptr("LV"),
		CargoEfetivo:   ptr("Promotor de Justiça"),
		Titularidade:   ptr("Substituto"),
		UnidadeLotacao: ptr("2ª Promotoria de Justiça"),
		ComarcaLotacao: ptr("Uberlândia"),
		EstadoOrigem:   ptr("SP"),
	}
	carla := &repository.Membro{
		Nome:           ptr("Carla Mendes Oliveira"),
		Sexo:           ptr("Feminino"),
		Concurso:       ptr("LVII"),
		CargoEfetivo:   ptr("Procurador de Justiça"),
		Titularidade:   ptr("Titular"),
		UnidadeLotacao: ptr("Procuradoria de Justiça Cível"),
		ComarcaLotacao: ptr("Belo Horizonte"),
		EstadoOrigem:   ptr("MG"),
	}

	for _, m := range []*repository.Membro{ana, bruno, carla} {
		if err := repos.MemberRepo.Create(ctx, m); err != nil {
			log.Printf("[Seed] Failed to create member: %v", err)
			return
		}
	}

	if err := repos.MemberRepo.SyncFriends(ctx, ana.ID, []int64{bruno.ID, carla.ID}, nil); err != nil {
		log.Printf("[Seed] Failed to create friend edges: %v", err)
		return
	}

	log.Println("[Seed] Demo members created")
}

func ptr(s string) *string {
	return &s
}
