package worldbank

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return &Client{BaseURL: srv.URL, HTTPClient: srv.Client()}, srv
}

func TestFetchIndicator(t *testing.T) {
	body := `[{"page":1,"pages":1,"per_page":20000,"total":1},
	[{"countryiso3code":"USA","country":{"value":"United States"},"date":"2020","value":331000000}]]`

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/country/all/indicator/SP.POP.TOTL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "20000" {
			t.Errorf("per_page = %q, want 20000", got)
		}
		w.Write([]byte(body))
	})
	defer srv.Close()

	obs, err := client.FetchIndicator("SP.POP.TOTL")
	if err != nil {
		t.Fatalf("FetchIndicator: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}
	o := obs[0]
	if o.CountryCode != "USA" || o.Country != "United States" || o.Year != 2020 {
		t.Errorf("unexpected observation %+v", o)
	}
	if o.Value == nil || *o.Value != 331000000 {
		t.Errorf("unexpected value %v", o.Value)
	}
}

func TestFetchIndicatorNullValue(t *testing.T) {
	body := `[{"total":1},
	[{"countryiso3code":"BRA","country":{"value":"Brazil"},"date":"1991","value":null}]]`

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	defer srv.Close()

	obs, err := client.FetchIndicator("NY.GDP.PCAP.KD")
	if err != nil {
		t.Fatalf("FetchIndicator: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}
	if obs[0].Value != nil {
		t.Errorf("null value should map to nil, got %v", *obs[0].Value)
	}
}

func TestFetchIndicatorBadStatus(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := client.FetchIndicator("EG.FEC.RNEW.ZS")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want FetchError, got %v", err)
	}
	if fe.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", fe.Status)
	}
	if fe.Indicator != "EG.FEC.RNEW.ZS" {
		t.Errorf("Indicator = %q", fe.Indicator)
	}
}

func TestFetchIndicatorMissingObservations(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"message":"no data"}]`))
	})
	defer srv.Close()

	_, err := client.FetchIndicator("SP.POP.TOTL")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want FetchError, got %v", err)
	}
}

func TestFetchIndicatorBadDate(t *testing.T) {
	body := `[{},[{"countryiso3code":"USA","country":{"value":"United States"},"date":"MRV","value":1}]]`
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	defer srv.Close()

	if _, err := client.FetchIndicator("SP.POP.TOTL"); err == nil {
		t.Fatal("want error for unparseable date")
	}
}
