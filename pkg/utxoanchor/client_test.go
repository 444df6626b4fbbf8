package utxoanchor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mycosoft/mindex-sdk-go/pkg/anchor"
)

// esploraStub serves the endpoints the backend touches, funded with one
// confirmed UTXO at whatever address the client derives.
func esploraStub(t *testing.T, broadcastStatus int, broadcastBody string) (*httptest.Server, *int) {
	t.Helper()
	broadcasts := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/blocks/tip/height":
			fmt.Fprint(w, "850123")
		case r.URL.Path == "/fee-estimates":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]float64{"1": 12.0, "6": 3.5, "144": 1.1})
		case strings.HasPrefix(r.URL.Path, "/address/") && strings.HasSuffix(r.URL.Path, "/utxo"):
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]UTXO{
				{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 200_000, State: UTXOStatus{Confirmed: true}},
				{TxID: strings.Repeat("cd", 32), Vout: 1, Value: 300, State: UTXOStatus{Confirmed: false}},
			})
		case r.URL.Path == "/tx" && r.Method == http.MethodPost:
			*broadcasts++
			w.WriteHeader(broadcastStatus)
			fmt.Fprint(w, broadcastBody)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	return server, broadcasts
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Network:    "testnet",
		BaseURL:    baseURL,
		PrivateKey: testKeyHex,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "", PrivateKey: testKeyHex}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
	if _, err := NewClient(Config{BaseURL: "ftp://x", PrivateKey: testKeyHex}); err == nil {
		t.Fatal("expected error for non-http base URL")
	}
	if _, err := NewClient(Config{BaseURL: "http://localhost", PrivateKey: ""}); err == nil {
		t.Fatal("expected error for missing private key")
	}
	if _, err := NewClient(Config{BaseURL: "http://localhost", PrivateKey: "abcd"}); err == nil {
		t.Fatal("expected error for short private key")
	}
	if _, err := NewClient(Config{BaseURL: "http://localhost", PrivateKey: testKeyHex, Network: "badnet"}); err == nil {
		t.Fatal("expected error for unsupported network")
	}
}

func TestClientKind(t *testing.T) {
	client := newTestClient(t, "http://localhost")
	if client.Kind() != anchor.BackendUTXO {
		t.Fatalf("expected utxo backend kind, got %q", client.Kind())
	}
}

func TestStatusReportsChainHealth(t *testing.T) {
	server, _ := esploraStub(t, http.StatusOK, "txid")
	defer server.Close()

	client := newTestClient(t, server.URL)
	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Connected {
		t.Fatal("expected connected status")
	}
	if status.Health["tip_height"] != int64(850123) {
		t.Fatalf("unexpected tip height: %v", status.Health["tip_height"])
	}
	if status.Health["fee_rate_sat_vb"] != 3.5 {
		t.Fatalf("unexpected fee rate: %v", status.Health["fee_rate_sat_vb"])
	}
}

func TestStatusUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Status(context.Background()); err == nil {
		t.Fatal("expected error for unreachable API")
	}
}

func TestFeeRateFallsBackToSlowestEstimate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]float64{"1": 20.0, "3": 8.0})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	rate, err := client.FeeRate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 8.0 {
		t.Fatalf("expected slowest estimate 8.0, got %v", rate)
	}
}

func TestListUTXOsFiltersUnconfirmed(t *testing.T) {
	server, _ := esploraStub(t, http.StatusOK, "txid")
	defer server.Close()

	client := newTestClient(t, server.URL)
	utxos, err := client.ListUTXOs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(utxos) != 1 {
		t.Fatalf("expected only confirmed UTXOs, got %d", len(utxos))
	}
	if utxos[0].Value != 200_000 {
		t.Fatalf("unexpected UTXO: %+v", utxos[0])
	}
}

func TestSubmitBroadcastsAnchorTx(t *testing.T) {
	const txID = "f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16"
	server, broadcasts := esploraStub(t, http.StatusOK, txID)
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Submit(context.Background(), []string{"rec-2", "rec-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected successful submit, got error: %s", result.ErrorMessage)
	}
	if result.TxID != txID {
		t.Fatalf("unexpected txid: %s", result.TxID)
	}
	if *broadcasts != 1 {
		t.Fatalf("expected exactly one broadcast, got %d", *broadcasts)
	}
}

func TestSubmitRejectionIsReportedNotRetried(t *testing.T) {
	server, broadcasts := esploraStub(
		t, http.StatusBadRequest,
		`sendrawtransaction RPC error: {"code":-26,"message":"min relay fee not met"}`,
	)
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Submit(context.Background(), []string{"rec-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejected submit")
	}
	if !strings.Contains(result.ErrorMessage, "min relay fee not met") {
		t.Fatalf("expected verbatim chain rejection, got %q", result.ErrorMessage)
	}
	if *broadcasts != 1 {
		t.Fatalf("expected exactly one broadcast attempt, got %d", *broadcasts)
	}
}

func TestSubmitRejectsEmptyBatch(t *testing.T) {
	client := newTestClient(t, "http://localhost")
	if _, err := client.Submit(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestSubmitInsufficientFundsReportedInResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/fee-estimates":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]float64{"6": 3.0})
		case strings.HasPrefix(r.URL.Path, "/address/"):
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]UTXO{
				{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 50, State: UTXOStatus{Confirmed: true}},
			})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Submit(context.Background(), []string{"rec-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected failed submit")
	}
	if !strings.Contains(result.ErrorMessage, "insufficient funds") {
		t.Fatalf("unexpected error message: %q", result.ErrorMessage)
	}
}
