package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"cokothon/config"
	"cokothon/models"
	"cokothon/services/apiclient"
	"cokothon/utils"

	"go.uber.org/zap"
)

// Seeds demo members, posts and surveys through the backend API.
func main() {
	users := flag.Int("users", 5, "number of demo members to create")
	posts := flag.Int("posts", 4, "posts per member")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	api := apiclient.New(config.AppConfig.APIBaseURL, config.AppConfig.APITimeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := api.Ping(ctx); err != nil {
		log.Fatalf("Backend not reachable at %s: %v", config.AppConfig.APIBaseURL, err)
	}

	categories, err := api.Categories.List(ctx, &apiclient.Credentials{})
	if err != nil || len(categories) == 0 {
		log.Fatalf("Failed to load categories: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	relationships := models.RelationshipOptions
	levels := models.SupportLevelOptions
	suffix := time.Now().Format("0102150405")

	var createdPosts, createdSurveys int
	for i := 1; i <= *users; i++ {
		creds := &apiclient.Credentials{}
		username := fmt.Sprintf("demo%s_%02d", suffix, i)
		req := models.RegisterRequest{
			Username: username,
			Password: "password123",
			Name:     fmt.Sprintf("데모회원%d", i),
			Email:    username + "@example.com",
		}
		if _, _, err := api.Auth.Register(ctx, creds, req); err != nil {
			logger.Warn("Register failed", zap.String("username", username), zap.Error(err))
			continue
		}
		if _, _, err := api.Auth.Login(ctx, creds, models.LoginRequest{Username: username, Password: req.Password}); err != nil {
			logger.Warn("Login failed", zap.String("username", username), zap.Error(err))
			continue
		}

		for p := 1; p <= *posts; p++ {
			cat := categories[rng.Intn(len(categories))]
			board := models.BoardRequest{
				Title:      fmt.Sprintf("%s의 %d번째 글", req.Name, p),
				Content:    fmt.Sprintf("%s 게시판에 남기는 테스트 글입니다.", cat.Name),
				CategoryID: cat.ID,
			}
			if _, _, err := api.Boards.Create(ctx, creds, board); err != nil {
				logger.Warn("Create board failed", zap.String("username", username), zap.Error(err))
				continue
			}
			createdPosts++
		}

		rel := models.Relationship(relationships[rng.Intn(len(relationships))].Value)
		survey := models.SurveyRequest{
			BirthDate:                  time.Date(1950+rng.Intn(50), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			RelationshipToDeceased:     rel,
			PsychologicalSupportLevel:  models.SupportLevel(levels[rng.Intn(len(levels))].Value),
			MeetingParticipationDesire: rng.Intn(2) == 1,
			PrivacyAgreement:           true,
		}
		if rel == models.RelationshipOther {
			survey.RelationshipDescription = "지인"
		}
		if _, _, err := api.Surveys.Submit(ctx, creds, survey); err != nil {
			logger.Warn("Submit survey failed", zap.String("username", username), zap.Error(err))
		} else {
			createdSurveys++
		}

		if _, err := api.Auth.Logout(ctx, creds); err != nil {
			logger.Warn("Logout failed", zap.String("username", username), zap.Error(err))
		}
	}

	fmt.Printf("Seeded %d members, %d posts and %d surveys.\n", *users, createdPosts, createdSurveys)
}
