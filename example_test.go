package fetchr_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	"github.com/adamwoolhether/fetchr"
	"github.com/adamwoolhether/fetchr/client"
)

func ExampleNewClient() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[{"name":"Robin","colour":"red"}]`)
	}))
	defer ts.Close()

	u, _ := url.Parse(ts.URL)

	c, err := fetchr.NewClient(u.Host,
		client.WithScheme("http"),
		client.WithTimeout(5*time.Second),
	)
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	type bird struct {
		Name   string `json:"name"`
		Colour string `json:"colour"`
	}

	birds, err := client.Do[[]bird](context.Background(), c, client.RequestSpec{
		Method:   client.MethodGet,
		Endpoint: client.Birds,
	})
	if err != nil {
		fmt.Println("do error:", err)
		return
	}

	fmt.Println(birds[0].Name)
	// Output: Robin
}
