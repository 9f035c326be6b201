// Package mq fans catalog-change events out over Redis pub/sub so cached
// product listings can be invalidated without coupling handlers to the cache.
package mq

import (
	"context"
	"encoding/json"
	"log"

	"uzhavan/rdx"
)

const channel = "marketplace-events"

// Event describes a single catalog mutation.
type Event struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityID   string `json:"entity_id"`
	ActorID    string `json:"actor_id"`
}

// Emit publishes a catalog event. Publish failures are logged and swallowed:
// the mutation itself already succeeded.
func Emit(ctx context.Context, eventName string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] marshal %s: %v", eventName, err)
		return
	}
	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] publish %s: %v", eventName, err)
		return
	}
	log.Printf("[Emit] %s published entity=%s id=%s", eventName, ev.EntityType, ev.EntityID)
}

// StartCatalogWorker subscribes to catalog events and drops the cached
// product listing after every product mutation. Runs until the process exits.
func StartCatalogWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[CatalogWorker] listening for catalog events")

	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[CatalogWorker] bad event payload: %v", err)
			continue
		}
		if ev.EntityType != "product" {
			continue
		}
		if _, err := rdx.RdxDel("products:all"); err != nil {
			log.Printf("[CatalogWorker] cache invalidation failed: %v", err)
		}
	}
}
