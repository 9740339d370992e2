// Command loadtest drives the search service with concurrent queries and
// reports throughput and latency percentiles.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tfsearch/searchd/pkg/paginate"
)

type stats struct {
	totalRequests atomic.Int64
	successCount  atomic.Int64
	errorCount    atomic.Int64
	latencies     []time.Duration
	latenciesMu   sync.Mutex
}

func (s *stats) record(duration time.Duration, statusCode int, err error) {
	s.totalRequests.Add(1)
	if err != nil || statusCode < 200 || statusCode >= 300 {
		s.errorCount.Add(1)
		return
	}
	s.successCount.Add(1)
	s.latenciesMu.Lock()
	s.latencies = append(s.latencies, duration)
	s.latenciesMu.Unlock()
}

func (s *stats) percentile(p float64) time.Duration {
	s.latenciesMu.Lock()
	defer s.latenciesMu.Unlock()
	if len(s.latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(s.latencies))
	copy(sorted, s.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

var queries = []string{
	"white cat fluffy tail",
	"black dog -cat",
	"fluffy groomed cat",
	"starling evgeny",
	"dog collar",
	"cat",
	"nonexistent words expected empty",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the search service")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	seed := flag.Int("seed", 200, "number of documents to ingest before querying")
	batch := flag.Int("batch", 25, "ingest batch size reported per progress line")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	if err := seedDocuments(client, *baseURL, *seed, *batch); err != nil {
		fmt.Fprintf(os.Stderr, "seeding documents failed: %v\n", err)
		os.Exit(1)
	}

	st := &stats{latencies: make([]time.Duration, 0, 100000)}
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				q := queries[(worker+i)%len(queries)]
				start := time.Now()
				code, err := doSearch(ctx, client, *baseURL, q)
				st.record(time.Since(start), code, err)
			}
		}(w)
	}
	wg.Wait()

	total := st.totalRequests.Load()
	elapsed := duration.Seconds()
	fmt.Printf("requests:   %d (%.1f/s)\n", total, float64(total)/elapsed)
	fmt.Printf("success:    %d\n", st.successCount.Load())
	fmt.Printf("errors:     %d\n", st.errorCount.Load())
	fmt.Printf("p50:        %v\n", st.percentile(0.50))
	fmt.Printf("p95:        %v\n", st.percentile(0.95))
	fmt.Printf("p99:        %v\n", st.percentile(0.99))
}

func seedDocuments(client *http.Client, baseURL string, count, batchSize int) error {
	texts := []string{
		"white cat and fancy collar",
		"fluffy cat fluffy tail",
		"groomed dog expressive eyes",
		"groomed starling evgeny",
		"black dog with a long tail",
	}
	ids := make([]int, count)
	for i := range ids {
		ids[i] = i
	}
	for _, page := range paginate.Chunk(ids, batchSize) {
		for _, id := range page {
			body := fmt.Sprintf(
				`{"id":%d,"text":"%s","status":"active","ratings":[%d,%d]}`,
				id, texts[id%len(texts)], id%10, (id+3)%10,
			)
			resp, err := client.Post(
				baseURL+"/api/v1/documents",
				"application/json",
				strings.NewReader(body),
			)
			if err != nil {
				return err
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
				return fmt.Errorf("ingest of document %d returned %d", id, resp.StatusCode)
			}
		}
		fmt.Printf("seeded %d documents\n", page[len(page)-1]+1)
	}
	return nil
}

func doSearch(ctx context.Context, client *http.Client, baseURL, query string) (int, error) {
	u := fmt.Sprintf("%s/api/v1/search?q=%s", baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
