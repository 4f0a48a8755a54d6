package main

import (
	"context"
	"os"

	"github.com/Anycrabs/telegram-masters-bot/internal/adapters/database"
	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/migrations"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	"github.com/Anycrabs/telegram-masters-bot/pkg/config"
)

type demoReview struct {
	userID int64
	rating int
	text   string
}

type demoMaster struct {
	app     entities.MasterApplication
	status  entities.MasterStatus
	reviews []demoReview
}

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }

func main() {
	cfg := config.LoadStorage()
	observability.InitLogger("masters-seed", cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()
	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer pgClient.Close()

	if err := migrations.Up(ctx, pgClient.DB().DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	if os.Getenv("RESET_DB") == "true" {
		logger.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reviews,
				masters,
				faq,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	masterRepo := database.NewMasterAdapter(pgClient)
	infoRepo := database.NewInfoAdapter(pgClient)
	rating := services.NewRatingService(database.NewReviewAdapter(pgClient), nil)

	masters := []demoMaster{
		{
			app: entities.MasterApplication{
				Name: "Иван Петров", Phone: "+7 900 111-22-33", Username: strp("ivan_plumber"),
				Category: "Сантехника", Description: "Замена труб, смесителей, установка бойлеров.",
				PriceMin: intp(1500), PriceMax: intp(6000),
			},
			status: entities.MasterStatusApproved,
			reviews: []demoReview{
				{userID: 9001, rating: 5, text: "Быстро и аккуратно, рекомендую."},
				{userID: 9002, rating: 4, text: "Хорошо, но опоздал на полчаса."},
			},
		},
		{
			app: entities.MasterApplication{
				Name: "Анна Смирнова", Phone: "+7 900 222-33-44",
				Category: "Электрика", Description: "Проводка, розетки, щитки под ключ.",
				PriceMin: intp(1000),
			},
			status: entities.MasterStatusApproved,
			reviews: []demoReview{
				{userID: 9001, rating: 5, text: "Всё сделала за день."},
			},
		},
		{
			app: entities.MasterApplication{
				Name: "Бригада «Ремонт+»", Phone: "+7 900 333-44-55", Username: strp("remont_plus"),
				Category: "Ремонт", Description: "Ремонт квартир от косметического до капитального.",
			},
			status: entities.MasterStatusApproved,
		},
		{
			app: entities.MasterApplication{
				Name: "Олег", Phone: "+7 900 444-55-66",
				Category: "Сантехника", Description: "Ждёт модерации.",
			},
			status: entities.MasterStatusNew,
		},
	}

	for i := range masters {
		m := &masters[i]
		id, err := masterRepo.CreateApplication(ctx, &m.app)
		if err != nil {
			logger.Error().Err(err).Str("name", m.app.Name).Msg("failed to create master")
			continue
		}
		if m.status != entities.MasterStatusNew {
			if err := masterRepo.SetStatus(ctx, id, m.status); err != nil {
				logger.Error().Err(err).Int64("master_id", id).Msg("failed to set status")
				continue
			}
		}
		for _, r := range m.reviews {
			if _, err := rating.SubmitReview(ctx, services.ReviewInput{
				MasterID: id,
				UserID:   r.userID,
				Rating:   r.rating,
				Text:     r.text,
			}); err != nil {
				logger.Error().Err(err).Int64("master_id", id).Msg("failed to submit review")
			}
		}
		logger.Info().Int64("master_id", id).Str("name", m.app.Name).Str("status", string(m.status)).Msg("seeded master")
	}

	faq := []entities.FAQEntry{
		{Question: "Как стать мастером?", Answer: "Нажмите «Стать мастером» в меню и заполните заявку."},
		{Question: "Как оставить отзыв?", Answer: "Откройте карточку мастера и нажмите «Оставить отзыв»."},
	}
	for i := range faq {
		faq[i].IsVisible = true
		if err := infoRepo.AddFAQ(ctx, &faq[i]); err != nil {
			logger.Error().Err(err).Str("question", faq[i].Question).Msg("failed to add FAQ entry")
		}
	}

	logger.Info().Int("masters", len(masters)).Int("faq", len(faq)).Msg("seeding complete")
}
