package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"planer-backend/tasks"
	"planer-backend/utilities"
)

const (
	usersCollection      = "users"
	categoriesCollection = "customCategories"
)

// CategoryDocs implementa tasks.CategoryStore sobre a subcoleção
// users/{uid}/customCategories, um documento por nome de categoria.
type CategoryDocs struct {
	client *firestore.Client
}

func NewCategoryDocs(client *firestore.Client) *CategoryDocs {
	return &CategoryDocs{client: client}
}

func (d *CategoryDocs) collection(userID string) *firestore.CollectionRef {
	return d.client.Collection(usersCollection).Doc(userID).Collection(categoriesCollection)
}

func (d *CategoryDocs) Add(ctx context.Context, userID, name string) error {
	if _, err := d.collection(userID).Doc(name).Set(ctx, map[string]interface{}{"name": name}); err != nil {
		return fmt.Errorf("erro ao gravar categoria %s: %w", name, err)
	}
	return nil
}

func (d *CategoryDocs) Remove(ctx context.Context, userID, name string) error {
	if _, err := d.collection(userID).Doc(name).Delete(ctx); err != nil {
		return fmt.Errorf("erro ao excluir categoria %s: %w", name, err)
	}
	return nil
}

func (d *CategoryDocs) Listen(ctx context.Context, userID string, fn func([]string)) (tasks.CancelFunc, error) {
	listenCtx, cancel := context.WithCancel(ctx)
	snapIter := d.collection(userID).Snapshots(listenCtx)

	go func() {
		for {
			qsnap, err := snapIter.Next()
			if err != nil {
				if listenCtx.Err() == nil {
					utilities.LogError(err, "Escuta de categorias encerrada com erro")
				}
				return
			}

			names := []string{}
			docIter := qsnap.Documents
			for {
				doc, err := docIter.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					utilities.LogError(err, "Erro ao iterar documentos de categorias")
					break
				}
				if name, ok := doc.Data()["name"].(string); ok {
					names = append(names, name)
				}
			}
			fn(names)
		}
	}()

	return func() {
		cancel()
		snapIter.Stop()
	}, nil
}
