// Package benchmark contains Go benchmarks for the search engine core:
// ingestion throughput, query latency, and concurrent read behaviour.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/tfsearch/searchd/internal/document"
	"github.com/tfsearch/searchd/internal/engine"
	"github.com/tfsearch/searchd/internal/requestlog"
)

var corpus = []string{
	"white cat and fancy collar",
	"fluffy cat fluffy tail",
	"groomed dog expressive eyes",
	"groomed starling evgeny",
	"black dog with a long fluffy tail",
	"small mouse in a big house",
}

func seededEngine(b *testing.B, docs int) *engine.Engine {
	b.Helper()
	e, err := engine.NewFromText("a and in on the with")
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < docs; i++ {
		if err := e.AddDocument(i, corpus[i%len(corpus)], document.StatusActive, []int{i % 10}); err != nil {
			b.Fatal(err)
		}
	}
	return e
}

// BenchmarkAddDocument measures per-document insert throughput.
func BenchmarkAddDocument(b *testing.B) {
	e, err := engine.NewFromText("a and in on the")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.AddDocument(i, corpus[i%len(corpus)], document.StatusActive, []int{5}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFindTopDocuments measures single-query latency at various corpus
// sizes.
func BenchmarkFindTopDocuments(b *testing.B) {
	for _, docs := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("docs_%d", docs), func(b *testing.B) {
			e := seededEngine(b, docs)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := e.FindTopDocuments("fluffy groomed cat -mouse"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkFindTopDocumentsParallel measures concurrent read throughput.
func BenchmarkFindTopDocumentsParallel(b *testing.B) {
	e := seededEngine(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := e.FindTopDocuments("fluffy cat"); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkMatchDocument measures single-document match latency.
func BenchmarkMatchDocument(b *testing.B) {
	e := seededEngine(b, 1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := e.MatchDocument("fluffy groomed cat", i%1000); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRequestLog measures the sliding-window overhead per recorded
// query.
func BenchmarkRequestLog(b *testing.B) {
	e := seededEngine(b, 1000)
	l := requestlog.New(e)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.AddFindRequest("fluffy cat"); err != nil {
			b.Fatal(err)
		}
	}
}
