//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cme-savings-service/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	wait := flag.Duration("wait", 15*time.Second, "how long to wait for the recorder to ack the event")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Тестовый расчёт: 5 сессий по 8 часов, 50 км до места проведения
	event := domain.CalculationCompletedEvent{
		Record: domain.CalculationRecord{
			ID:               uuid.New(),
			SessionMinutes:   480,
			PointsPerSession: 8,
			SessionsPerYear:  5,
			Participants:     1,
			DistanceKm:       50,
			DistanceSource:   domain.SourceEstimate,
			TraditionalCost:  15600,
			OptimizedCost:    3590,
			AnnualSavings:    12010,
			SavingsPercent:   76.99,
			HoursSaved:       30,
			ProjectedSavings: 60050,
			PracticePostcode: "10117",
			CreatedAt:        time.Now().UTC(),
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamCalculationCompleted,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamCalculationCompleted)
	fmt.Printf("   Message ID: %s\n", id)
	fmt.Printf("   Calculation ID: %s\n", event.Record.ID)

	// Ждём, пока группа подтвердит сообщение (pending = 0)
	fmt.Printf("\nWaiting for the recorder to ack...\n")

	deadline := time.After(*wait)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			fmt.Println("Timeout: event is still pending or no consumer group exists")
			return
		case <-ticker.C:
			groups, err := client.XInfoGroups(ctx, domain.StreamCalculationCompleted).Result()
			if err != nil {
				continue
			}
			for _, g := range groups {
				if g.Pending == 0 && g.LastDeliveredID >= id {
					fmt.Printf("Recorded by group %q\n", g.Name)
					return
				}
			}
		}
	}
}
