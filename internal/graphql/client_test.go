package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientExecuteDecodesData(t *testing.T) {
	var captured request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"item":{"itemId":"{ABC}"}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithToken("secret"))
	var out struct {
		Item struct {
			ItemID string `json:"itemId"`
		} `json:"item"`
	}
	err := client.Execute(context.Background(), ItemIDByPathQuery, map[string]any{"where": WhereByPathOrID("/sitecore/content", "")}, &out)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.Item.ItemID != "{ABC}" {
		t.Fatalf("unexpected item id %q", out.Item.ItemID)
	}
	if captured.Query != ItemIDByPathQuery {
		t.Fatal("query not forwarded")
	}
	where, ok := captured.Variables["where"].(map[string]any)
	if !ok || where["path"] != "/sitecore/content" || where["language"] != "en" {
		t.Fatalf("unexpected variables %#v", captured.Variables)
	}
}

func TestClientExecuteJoinsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"first"},{"message":"second"}]}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).Execute(context.Background(), "query{}", nil, nil)
	if !errors.Is(err, ErrGraphQL) {
		t.Fatalf("expected ErrGraphQL, got %v", err)
	}
	var gqlErr *Error
	if !errors.As(err, &gqlErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gqlErr.Error() != "graphql error: first | second" {
		t.Fatalf("unexpected message %q", gqlErr.Error())
	}
}

func TestClientExecuteEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).Execute(context.Background(), "query{}", nil, &struct{}{})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestClientExecuteStatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	err := NewClient(server.URL).Execute(context.Background(), "query{}", nil, nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestWhereByPathOrID(t *testing.T) {
	cases := []struct {
		ref  string
		want Where
	}{
		{"/sitecore/templates/Page", Where{Path: "/sitecore/templates/Page", Language: "en"}},
		{" {abc-def} ", Where{ItemID: "{ABC-DEF}", Language: "en"}},
		{"templates/Page", Where{Path: "templates/Page", Language: "en"}},
	}
	for _, tc := range cases {
		if got := WhereByPathOrID(tc.ref, ""); got != tc.want {
			t.Fatalf("WhereByPathOrID(%q) = %+v, want %+v", tc.ref, got, tc.want)
		}
	}
}
