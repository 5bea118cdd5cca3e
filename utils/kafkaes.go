package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/segmentio/kafka-go"
)

type LogMessage struct {
	Level     string            `json:"level"`
	Module    string            `json:"module"`
	Message   string            `json:"message"`
	TraceID   string            `json:"trace_id"`
	Env       string            `json:"env"`
	Timestamp time.Time         `json:"timestamp"`
	Extra     map[string]string `json:"extra"`
}

// RunLogPusher consumes the request log topic and bulk-indexes entries into
// Elasticsearch. It blocks until ctx is cancelled; the driver runs it in a
// goroutine when both Kafka and Elasticsearch are configured.
func RunLogPusher(ctx context.Context, brokers []string, topic, esAddr string) error {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "es-pusher",
	})
	defer kafkaReader.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esAddr},
	})
	if err != nil {
		return err
	}

	log.Println("Starting Kafka to Elasticsearch log pusher")

	const batchSize = 100
	const batchTimeout = 5 * time.Second

	batch := make([]LogMessage, 0, batchSize)
	lastFlush := time.Now()

	flushBatch := func() {
		if len(batch) == 0 {
			return
		}
		var buf bytes.Buffer
		for _, logMsg := range batch {
			docBytes, err := json.Marshal(logMsg)
			if err != nil {
				log.Printf("Marshal error: %v", err)
				continue
			}
			buf.WriteString("{\"index\":{}}\n")
			buf.Write(docBytes)
			buf.WriteString("\n")
		}
		res, err := es.Bulk(bytes.NewReader(buf.Bytes()), es.Bulk.WithIndex(topic))
		if err != nil {
			log.Printf("Bulk index error: %v", err)
		} else {
			res.Body.Close()
		}
		batch = batch[:0]
		lastFlush = time.Now()
	}

	for {
		readCtx, cancel := context.WithTimeout(ctx, batchTimeout)
		m, err := kafkaReader.ReadMessage(readCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				flushBatch()
				return ctx.Err()
			}
			// read deadline: flush whatever accumulated and keep going
			if time.Since(lastFlush) >= batchTimeout {
				flushBatch()
			}
			continue
		}

		var logMsg LogMessage
		if err := json.Unmarshal(m.Value, &logMsg); err != nil {
			log.Printf("JSON decode error: %v", err)
			continue
		}
		if logMsg.Timestamp.IsZero() {
			logMsg.Timestamp = time.Now()
		}

		batch = append(batch, logMsg)
		if len(batch) >= batchSize {
			flushBatch()
		}
	}
}
