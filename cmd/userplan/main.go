// Command userplan is the operator tool for the quota ledger: inspect a
// user, grant fresh quotas, or toggle the privileged flag.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/adapter/repo"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/infra"
)

func main() {
	var (
		idFlag         int64
		planQuotaFlag  int
		chatQuotaFlag  int
		privilegedFlag string
	)

	flag.Int64Var(&idFlag, "id", 0, "telegram user id")
	flag.IntVar(&planQuotaFlag, "plan-quota", -1, "set the plan quota (negative keeps current value)")
	flag.IntVar(&chatQuotaFlag, "chat-quota", -1, "set the chat quota (negative keeps current value)")
	flag.StringVar(&privilegedFlag, "privileged", "", "set the privileged flag (true or false)")
	flag.Parse()

	_ = godotenv.Load()

	if idFlag <= 0 {
		exitWithError(errors.New("-id is required"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	users := repo.NewUserRepository(infra.NewSQLRunner(pool, logger), 0, 0)

	user, err := users.GetByID(ctx, idFlag)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load user %d: %w", idFlag, err))
	}

	if planQuotaFlag >= 0 || chatQuotaFlag >= 0 {
		planQuota := user.PlanQuota
		if planQuotaFlag >= 0 {
			planQuota = planQuotaFlag
		}
		chatQuota := user.ChatQuota
		if chatQuotaFlag >= 0 {
			chatQuota = chatQuotaFlag
		}
		if err := users.ResetQuota(ctx, idFlag, planQuota, chatQuota); err != nil {
			exitWithError(fmt.Errorf("failed to reset quotas: %w", err))
		}
	}

	if privilegedFlag != "" {
		var privileged bool
		switch strings.ToLower(privilegedFlag) {
		case "true":
			privileged = true
		case "false":
			privileged = false
		default:
			exitWithError(fmt.Errorf("unsupported -privileged value %q", privilegedFlag))
		}
		if err := users.SetPrivileged(ctx, idFlag, privileged); err != nil {
			exitWithError(fmt.Errorf("failed to set privileged flag: %w", err))
		}
	}

	user, err = users.GetByID(ctx, idFlag)
	if err != nil {
		exitWithError(fmt.Errorf("failed to reload user: %w", err))
	}
	printUser(user)
}

func printUser(u *domain.User) {
	fmt.Printf("user %d (%s)\n", u.TelegramID, u.Name)
	fmt.Printf("plan_quota=%d chat_quota=%d privileged=%v\n", u.PlanQuota, u.ChatQuota, u.Privileged)
	if u.WorkoutGeneratedAt != nil {
		fmt.Printf("workout_generated_at=%s\n", u.WorkoutGeneratedAt.Format(time.RFC3339))
	}
	if u.NutritionGeneratedAt != nil {
		fmt.Printf("nutrition_generated_at=%s\n", u.NutritionGeneratedAt.Format(time.RFC3339))
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
