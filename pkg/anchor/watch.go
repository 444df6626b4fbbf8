package anchor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	socketio "github.com/zhouhui8915/go-socket.io-client"
)

// ProgressStage labels where a watched anchor submission is in its
// lifecycle on the relay side.
type ProgressStage string

const (
	StageSubmitting ProgressStage = "submitting"
	StageConfirming ProgressStage = "confirming"
	StageCompleted  ProgressStage = "completed"
)

// ProgressData is one progress event from an anchor relay stream.
type ProgressData struct {
	Stage           ProgressStage
	Message         string
	ProgressPercent float64
	Details         map[string]any
}

// ProgressCallback receives progress events while a submission is watched.
type ProgressCallback func(data ProgressData)

// WatchOptions configures a relay progress watch. Credentials are passed
// explicitly per call; nothing is cached process-wide.
type WatchOptions struct {
	// BaseURL is the socket.io endpoint of the anchor relay service.
	BaseURL string
	// APIKey authenticates the stream.
	APIKey string
	// TxID filters events to one submission. Empty watches everything.
	TxID string
	// InactivityTimeout aborts the watch when the stream goes quiet.
	// Zero selects 30 seconds.
	InactivityTimeout time.Duration
}

// WatchSubmission follows an anchor relay's progress stream until the
// watched submission completes, fails, or the stream goes quiet. The
// relay emits anchor-progress, anchor-complete, and anchor-error events;
// terminal events resolve into the backend's submit result.
func WatchSubmission(
	ctx context.Context,
	options WatchOptions,
	callback ProgressCallback,
) (SubmitResult, error) {
	baseURL := strings.TrimSpace(options.BaseURL)
	if baseURL == "" {
		return SubmitResult{}, fmt.Errorf("relay base URL is required")
	}

	socketOptions := &socketio.Options{
		Transport: "websocket",
		Query: map[string]string{
			"apiKey": options.APIKey,
		},
		Header: map[string][]string{
			"x-api-key": {options.APIKey},
		},
	}

	client, err := socketio.NewClient(baseURL, socketOptions)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to connect to anchor relay: %w", err)
	}

	watchedTxID := strings.TrimSpace(options.TxID)
	progressChannel := make(chan map[string]any, 4)
	completeChannel := make(chan map[string]any, 2)
	errorChannel := make(chan string, 2)

	_ = client.On("error", func(message any) {
		errorChannel <- fmt.Sprintf("%v", message)
	})
	_ = client.On("anchor-error", func(payload map[string]any) {
		errorMessage := strings.TrimSpace(parseString(payload["error"]))
		if errorMessage == "" {
			errorMessage = "anchor relay reported an error"
		}
		errorChannel <- errorMessage
	})
	_ = client.On("anchor-progress", func(payload map[string]any) {
		progressChannel <- payload
	})
	_ = client.On("anchor-complete", func(payload map[string]any) {
		completeChannel <- payload
	})

	inactivityTimeout := options.InactivityTimeout
	if inactivityTimeout <= 0 {
		inactivityTimeout = 30 * time.Second
	}
	timer := time.NewTimer(inactivityTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return SubmitResult{}, ctx.Err()
		case <-timer.C:
			return SubmitResult{}, fmt.Errorf("anchor relay stream timed out after %s of inactivity", inactivityTimeout)
		case message := <-errorChannel:
			return SubmitResult{OK: false, ErrorMessage: message}, &SubmitError{Message: message}
		case payload := <-progressChannel:
			timer.Reset(inactivityTimeout)

			if !matchesWatchedSubmission(watchedTxID, payload) {
				continue
			}

			if callback != nil {
				callback(ProgressData{
					Stage:           StageConfirming,
					Message:         "Processing anchor batch",
					ProgressPercent: parseFloat(payload["progress"]),
					Details:         payload,
				})
			}

			status := strings.ToLower(parseString(payload["status"]))
			if status == "completed" || parseFloat(payload["progress"]) >= 100 {
				return submitResultFromEvent(payload), nil
			}
		case payload := <-completeChannel:
			timer.Reset(inactivityTimeout)
			if !matchesWatchedSubmission(watchedTxID, payload) {
				continue
			}

			if callback != nil {
				callback(ProgressData{
					Stage:           StageCompleted,
					Message:         "Anchor batch confirmed",
					ProgressPercent: 100,
					Details:         payload,
				})
			}

			return submitResultFromEvent(payload), nil
		}
	}
}

func matchesWatchedSubmission(watchedTxID string, payload map[string]any) bool {
	if watchedTxID == "" {
		return true
	}

	for _, key := range []string{"tx_id", "transactionId", "jobId"} {
		value := strings.TrimSpace(parseString(payload[key]))
		if value == "" {
			continue
		}
		if value == watchedTxID {
			return true
		}
	}
	return false
}

func submitResultFromEvent(payload map[string]any) SubmitResult {
	txID := strings.TrimSpace(parseString(payload["tx_id"]))
	if txID == "" {
		txID = strings.TrimSpace(parseString(payload["transactionId"]))
	}
	return SubmitResult{
		OK:   true,
		TxID: txID,
	}
}

func parseString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	default:
		return ""
	}
}

func parseFloat(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
