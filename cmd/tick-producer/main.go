// Command tick-producer replays or synthesises trade ticks onto the tick topic,
// for exercising the monitor without a live vendor feed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	v1 "github.com/zd0907-arc/market-live-terminal/internal/domain/tick-consumer/v1"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

// session is one continuous trading window, in seconds since midnight.
type session struct {
	open, close int
}

var sessions = []session{
	{open: 9*3600 + 30*60, close: 11*3600 + 30*60},
	{open: 13 * 3600, close: 15 * 3600},
}

// generateTicks walks a price from basePrice through both sessions of date,
// printing count ticks per symbol in time order. Roughly one print in ten is
// a block trade so the aggregator has main flow to classify.
func generateTicks(rng *rand.Rand, symbols []string, date string, count int, basePrice float64) []v1.TickEvent {
	var events []v1.TickEvent
	total := 0
	for _, s := range sessions {
		total += s.close - s.open
	}

	for _, symbol := range symbols {
		price := basePrice
		for i := 0; i < count; i++ {
			offset := total * i / max(count, 1)
			clock := clockAt(offset)

			price = max(0.01, price*(1+(rng.Float64()-0.5)*0.002))
			price = float64(int(price*100)) / 100

			volume := int64(rng.Intn(50)+1) * 100
			if rng.Float64() < 0.1 {
				volume *= 50
			}

			side := "neutral"
			switch r := rng.Float64(); {
			case r < 0.45:
				side = "buy"
			case r < 0.9:
				side = "sell"
			}

			events = append(events, v1.TickEvent{
				Symbol: symbol,
				Date:   date,
				Time:   clock,
				Seq:    int64(i + 1),
				Price:  price,
				Volume: volume,
				Amount: price * float64(volume),
				Type:   side,
			})
		}
	}
	return events
}

// clockAt maps an offset into trading time onto a wall clock HH:MM:SS,
// skipping the midday recess.
func clockAt(offset int) string {
	for _, s := range sessions {
		if length := s.close - s.open; offset < length {
			secs := s.open + offset
			return time.Date(0, 1, 1, secs/3600, secs/60%60, secs%60, 0, time.UTC).Format(util.ClockLayout)
		}
		offset -= s.close - s.open
	}
	return "15:00:00"
}

func main() {
	var (
		brokers   = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic     = flag.String("topic", "trade-ticks", "Kafka topic name")
		file      = flag.String("file", "", "JSON file with tick events (optional, generates ticks if not provided)")
		symbols   = flag.String("symbols", "sh600519,sz000001", "Symbols to generate ticks for (comma-separated)")
		date      = flag.String("date", time.Now().In(util.Exchange).Format(util.DateLayout), "Trading date YYYY-MM-DD")
		count     = flag.Int("count", 1000, "Number of ticks to generate per symbol")
		basePrice = flag.Float64("base-price", 10.0, "Opening price for generated ticks")
		delay     = flag.Duration("delay", 0, "Delay between messages")
	)
	flag.Parse()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	var events []v1.TickEvent
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read file %s: %v", *file, err)
		}
		if err := json.Unmarshal(data, &events); err != nil {
			log.Fatalf("Failed to parse JSON from file: %v", err)
		}
		log.Printf("Loaded %d ticks from file: %s", len(events), *file)
	} else {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		events = generateTicks(rng, strings.Split(*symbols, ","), *date, *count, *basePrice)
		log.Printf("Generated %d ticks for %s", len(events), *date)
	}

	log.Printf("Sending ticks to Kafka broker: %s, topic: %s", *brokers, *topic)

	sent := 0
	for i, ev := range events {
		value, err := json.Marshal(ev)
		if err != nil {
			log.Printf("Failed to marshal tick %d: %v", i+1, err)
			continue
		}

		// keyed by symbol so one instrument's prints stay in order
		msg := kafka.Message{Key: []byte(ev.Symbol), Value: value, Time: time.Now()}
		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send tick %d (%s %s): %v", i+1, ev.Symbol, ev.Time, err)
			continue
		}
		sent++

		if (i+1)%500 == 0 || i == len(events)-1 {
			log.Printf("Sent tick %d/%d: %s %s %s %d @ %.2f", i+1, len(events), ev.Symbol, ev.Time, ev.Type, ev.Volume, ev.Price)
		}
		if *delay > 0 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Sent %d of %d ticks", sent, len(events))
}
