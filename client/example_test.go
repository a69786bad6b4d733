package client_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	"github.com/adamwoolhether/fetchr/client"
)

func ExampleBuild() {
	c, err := client.Build("api.example.com",
		client.WithTimeout(10*time.Second),
		client.WithUserAgent("example/1.0"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("client built for", c.Host())
	// Output: client built for api.example.com
}

func ExampleURL() {
	u, err := client.URL("https", "api.example.com", client.Fish.Path(),
		client.WithQueryStrings(map[string]string{"water": "fresh"}),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(u.String())
	// Output: https://api.example.com/test/fish?water=fresh
}

func ExampleClient_BuildRequest() {
	c, _ := client.Build("api.example.com")

	req, err := c.BuildRequest(context.Background(), client.RequestSpec{
		Method:   client.MethodPost,
		Endpoint: client.Birds,
		Headers:  map[string]string{"X-Request-ID": "abc123"},
		Body:     map[string]any{"name": "Robin"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(req.Method, req.URL.Path, req.Header.Get("X-Request-ID"))
	// Output: POST /test/birds abc123
}

func ExampleDo() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"Robin","colour":"red"}]`)
	}))
	defer ts.Close()

	u, _ := url.Parse(ts.URL)
	c, _ := client.Build(u.Host, client.WithScheme("http"))

	type bird struct {
		Name   string `json:"name"`
		Colour string `json:"colour"`
	}

	birds, err := client.Do[[]bird](context.Background(), c, client.RequestSpec{
		Method:   client.MethodGet,
		Endpoint: client.Birds,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(birds[0].Name, birds[0].Colour)
	// Output: Robin red
}

func ExampleDo_statusError() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	u, _ := url.Parse(ts.URL)
	c, _ := client.Build(u.Host, client.WithScheme("http"))

	_, err := client.Do[[]string](context.Background(), c, client.RequestSpec{
		Method:   client.MethodGet,
		Endpoint: client.Fish,
	})

	var reqErr *client.Error
	if errors.As(err, &reqErr) {
		fmt.Println(errors.Is(err, client.ErrRequestFailed), reqErr.StatusCode)
	}
	fmt.Println(err)
	// Output:
	// true 404
	// request failed: failure - 404
}

func ExampleExecute() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"Cod"}]`)
	}))
	defer ts.Close()

	u, _ := url.Parse(ts.URL)
	c, _ := client.Build(u.Host, client.WithScheme("http"))

	type fish struct {
		Name string `json:"name"`
	}

	done := make(chan struct{})
	client.Execute(context.Background(), c, client.RequestSpec{
		Method:   client.MethodGet,
		Endpoint: client.Fish,
	}, func(r client.Result[[]fish]) {
		defer close(done)
		if r.Err != nil {
			fmt.Println("error:", r.Err)
			return
		}
		fmt.Println(r.Value[0].Name)
	})

	<-done
	// Output: Cod
}

func ExampleStream_Subscribe() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"Robin"},{"name":"Jay"}]`)
	}))
	defer ts.Close()

	u, _ := url.Parse(ts.URL)
	c, _ := client.Build(u.Host, client.WithScheme("http"))

	type bird struct {
		Name string `json:"name"`
	}

	count := client.Map(
		client.NewStream[[]bird](c, client.RequestSpec{Method: client.MethodGet, Endpoint: client.Birds}),
		func(birds []bird) (int, error) { return len(birds), nil },
	)

	sub := count.Subscribe(context.Background())
	for n := range sub.Values() {
		fmt.Println("birds:", n)
	}
	if err := sub.Err(); err != nil {
		fmt.Println("error:", err)
	}
	// Output: birds: 2
}
