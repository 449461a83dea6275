// Package main runs a local fake of the post history collaborator.
package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

//go:embed data.json
var jsonData []byte

type tweet struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Likes       int       `json:"likes"`
	Retweets    int       `json:"retweets"`
	Replies     int       `json:"replies"`
	Impressions int       `json:"impressions"`
	CreatedAt   time.Time `json:"created_at"`
}

func main() {
	var tweets []tweet
	if err := json.Unmarshal(jsonData, &tweets); err != nil {
		log.Fatalf("[Scraper] invalid data.json: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "mock-scraper",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	app.Get("/api/users/:username/tweets", func(c *fiber.Ctx) error {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		username := strings.ToLower(c.Params("username"))
		if username == "ghost" {
			log.Printf("[Scraper] %s %s - 404", c.Method(), c.Path())
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}

		limit := c.QueryInt("limit", len(tweets))
		limit = max(0, min(limit, len(tweets)))

		log.Printf("[Scraper] %s %s - 200 OK (%d tweets)", c.Method(), c.Path(), limit)

		return c.JSON(fiber.Map{
			"username": username,
			"tweets":   tweets[:limit],
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	log.Println("Mock scraper running on :8081")
	log.Fatal(app.Listen(":8081"))
}
