// README: Weaviate client initialization for the plan catalog.
package infra

import (
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
)

func NewWeaviate(host, scheme string) (*weaviate.Client, error) {
	return weaviate.NewClient(weaviate.Config{
		Host:   host,
		Scheme: scheme,
	})
}
