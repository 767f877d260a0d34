//go:build ignore

package main

import (
	"context"
	"log"
	"os"

	"github.com/vinicius-lino-figueiredo/jsondb/adapter/storage"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/store"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

// Writes a large database where every document holds os.Args[1] to the file
// at os.Args[2]. The caller may kill the process at any point.
func main() {
	total := 50000

	docs := make([]domain.Document, total)
	for n := range total {
		docs[n] = domain.Document{"value": os.Args[1]}
	}

	name := os.Args[2]
	if err := storage.NewStorage().EnsureFile(name, 0o755, 0o644); err != nil {
		log.Fatal(err)
	}
	if err := store.NewFileStore().Write(context.Background(), name, domain.Data{"docs": docs}); err != nil {
		log.Fatal(err)
	}
}
