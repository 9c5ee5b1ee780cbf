package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"agency-crm/backend/logging"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotifierService posts finance events to an external notifications endpoint.
// Delivery is best effort: failures are logged, never surfaced to the caller,
// and the circuit breaker stops hammering a dead endpoint.
type NotifierService struct {
	URL     string
	Client  *http.Client
	Breaker *gobreaker.CircuitBreaker
}

func NewNotifierService(url string) *NotifierService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "FinanceEventsBreaker",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("circuit breaker %s changed state from %v to %v", name, from, to)
		},
	})
	return &NotifierService{
		URL:     url,
		Client:  &http.Client{Timeout: 5 * time.Second},
		Breaker: breaker,
	}
}

type financeEvent struct {
	ProjectID string `json:"projectId"`
	Kind      string `json:"kind"`
	Amount    int64  `json:"amount"`
	At        string `json:"at"`
}

// FinanceEventRecorded fires a webhook for a successfully recorded ledger
// transaction. Safe to call with an unconfigured notifier.
func (n *NotifierService) FinanceEventRecorded(projectID primitive.ObjectID, kind string, amount int64) {
	if n == nil || n.URL == "" {
		return
	}

	event := financeEvent{
		ProjectID: projectID.Hex(),
		Kind:      kind,
		Amount:    amount,
		At:        time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(event)
	if err != nil {
		logging.Logger.Warnf("could not encode finance event: %v", err)
		return
	}

	_, err = n.Breaker.Execute(func() (interface{}, error) {
		resp, err := n.Client.Post(n.URL, "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("notifications endpoint returned %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		logging.Logger.Warnf("finance event for project %s not delivered: %v", projectID.Hex(), err)
	}
}
