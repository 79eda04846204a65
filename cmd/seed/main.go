package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"umrah-booking-platform/internal/config"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/repository"
	pg "umrah-booking-platform/internal/infra/db/postgres"
)

// Seeds a demo catalog: two travel packages, a pilgrim, an agent user and
// the agent profile attached to it. Safe to re-run; it stops when packages
// already exist.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool := pg.MustConnectPostgres(cfg.Database.URL)
	defer pool.Close()

	packageRepo := pg.NewTravelPackageRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	agentRepo := pg.NewAgentRepo(pool)

	existing, err := packageRepo.ListActive(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list packages: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d packages already present. No changes.\n", len(existing))
		for _, p := range existing {
			fmt.Printf("  - %s (season=%s, price=%d, discount=%d)\n", p.Name, p.Season, p.Price, p.AgentDiscount)
		}
		return
	}

	packages := []struct {
		Name     string
		Season   model.PackageSeason
		Price    int64
		Discount int64
		Quota    int
		Departs  time.Time
	}{
		{"Umrah Ramadan Economy", model.SeasonUmrah, 28_500_000_00, 500_000_00, 45, time.Now().AddDate(0, 3, 0)},
		{"Hajj Premium", model.SeasonHajj, 95_000_000_00, 1_500_000_00, 20, time.Now().AddDate(0, 9, 0)},
	}
	for _, s := range packages {
		p, err := model.NewTravelPackage(uuid.NewString(), s.Name, s.Season, s.Price, s.Discount, s.Quota, s.Departs)
		if err != nil {
			log.Fatalf("build package %q: %v", s.Name, err)
		}
		if err := packageRepo.Save(ctx, repository.NoTX, p); err != nil {
			log.Fatalf("save package %q: %v", s.Name, err)
		}
		fmt.Printf("seeded package: %s (id=%s, price=%d)\n", p.Name, p.ID, p.Price)
	}

	pilgrim, err := model.NewUser(uuid.NewString(), "pilgrim@example.com", "Demo Pilgrim", model.RolePilgrim)
	if err != nil {
		log.Fatalf("build pilgrim: %v", err)
	}
	if err := userRepo.Save(ctx, repository.NoTX, pilgrim); err != nil {
		log.Fatalf("save pilgrim: %v", err)
	}
	fmt.Printf("seeded user: %s (id=%s)\n", pilgrim.Email, pilgrim.ID)

	agentUser, err := model.NewUser(uuid.NewString(), "agent@example.com", "Demo Agent", model.RoleAgent)
	if err != nil {
		log.Fatalf("build agent user: %v", err)
	}
	if err := userRepo.Save(ctx, repository.NoTX, agentUser); err != nil {
		log.Fatalf("save agent user: %v", err)
	}
	agent, err := model.NewAgent(uuid.NewString(), agentUser.ID, "Al-Safar Travel", model.CommissionPercentage, 10)
	if err != nil {
		log.Fatalf("build agent: %v", err)
	}
	if err := agentRepo.Save(ctx, repository.NoTX, agent); err != nil {
		log.Fatalf("save agent: %v", err)
	}
	fmt.Printf("seeded agent: %s (id=%s, commission=%s %.0f)\n", agent.AgencyName, agent.ID, agent.CommissionType, agent.CommissionRate)

	fmt.Println("Seeding complete.")
}
