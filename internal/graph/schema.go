package graph

import (
	"errors"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/store-mgmt/store-api/internal/categories"
	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/internal/shared"
	"github.com/store-mgmt/store-api/internal/users"
)

// Config carries the collaborators resolvers depend on.
type Config struct {
	Categories *categories.Service
	Users      users.Store
	Gate       rbac.Gate
	Recorder   rbac.Recorder
	Logger     *slog.Logger
}

type resolver struct {
	Config
}

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"note": &graphql.Field{Type: graphql.String},
	},
})

var paginatedCategoriesType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PaginatedCategories",
	Fields: graphql.Fields{
		"total":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"offset": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"limit":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"items":  &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(categoryType)))},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

// NewSchema builds the executable schema. Every root field is gated by a
// permission; a denied field resolves to null with a FORBIDDEN error while
// its siblings still resolve.
func NewSchema(cfg Config) (graphql.Schema, error) {
	if cfg.Categories == nil || cfg.Users == nil {
		return graphql.Schema{}, errors.New("graph: categories service and user store are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := &resolver{Config: cfg}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: paginatedCategoriesType,
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String},
					"offset": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"limit":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.authorized(rbac.PermReadRecord, r.categories),
			},
			"category": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.authorized(rbac.PermReadRecord, r.category),
			},
			"categoriesByIds": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Args: graphql.FieldConfigArgument{
					"ids": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
				},
				Resolve: r.authorized(rbac.PermReadRecord, r.categoriesByIDs),
			},
			"profile": &graphql.Field{
				Type:    userType,
				Resolve: r.authorized(rbac.PermReadRecord, r.profile),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"note": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.authorized(rbac.PermCreateRecord, r.createCategory),
			},
			"updateCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"name": &graphql.ArgumentConfig{Type: graphql.String},
					"note": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.authorized(rbac.PermUpdateRecord, r.updateCategory),
			},
			"deleteCategory": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.authorized(rbac.PermDeleteRecord, r.deleteCategory),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

// authorized gates resolve behind permission for the request's identity.
func (r *resolver) authorized(permission string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		rc := FromContext(p.Context)
		var principal rbac.Principal
		if rc.Identity != nil {
			principal = rc.Identity
		}
		decision := r.Gate.Check(principal, permission)
		if r.Recorder != nil {
			r.Recorder.RecordDecision("graphql", decision)
		}
		if !decision.Allowed {
			r.Logger.Warn("graph field denied",
				slog.String("field", p.Info.FieldName),
				slog.String("role", decision.Role),
				slog.String("permission", permission))
			return nil, denied()
		}
		out, err := resolve(p)
		if err != nil {
			return nil, fieldError(err)
		}
		return out, nil
	}
}

func (r *resolver) categories(p graphql.ResolveParams) (interface{}, error) {
	q := categories.ListQuery{}
	q.Search, _ = p.Args["search"].(string)
	q.Offset, _ = p.Args["offset"].(int)
	q.Limit, _ = p.Args["limit"].(int)
	page, err := r.Categories.List(p.Context, q)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *resolver) category(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	c, err := FromContext(p.Context).loader(r.Categories).Load(p.Context, id)
	if err != nil || c == nil {
		return nil, err
	}
	return c, nil
}

func (r *resolver) categoriesByIDs(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["ids"].([]interface{})
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		s, _ := v.(string)
		ids = append(ids, s)
	}
	found, err := FromContext(p.Context).loader(r.Categories).LoadMany(p.Context, ids)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(found))
	for i, c := range found {
		if c != nil {
			out[i] = c
		}
	}
	return out, nil
}

func (r *resolver) profile(p graphql.ResolveParams) (interface{}, error) {
	identity := FromContext(p.Context).Identity
	if identity == nil || identity.ID == "" {
		return nil, nil
	}
	user, err := r.Users.FindByID(p.Context, identity.ID)
	if err != nil {
		r.Logger.Error("resolve profile", slog.Any("error", err))
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return map[string]interface{}{"id": user.ID, "username": user.Username, "role": user.Role}, nil
}

func (r *resolver) createCategory(p graphql.ResolveParams) (interface{}, error) {
	name, _ := p.Args["name"].(string)
	note, _ := p.Args["note"].(string)
	c, err := r.Categories.Create(p.Context, name, note)
	if err != nil {
		return nil, err
	}
	FromContext(p.Context).loader(r.Categories).Prime(c)
	return c, nil
}

func (r *resolver) updateCategory(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	var patch categories.Patch
	if name, ok := p.Args["name"].(string); ok {
		patch.Name = &name
	}
	if note, ok := p.Args["note"].(string); ok {
		patch.Note = &note
	}
	c, err := r.Categories.Update(p.Context, id, patch)
	if err != nil {
		return nil, err
	}
	FromContext(p.Context).loader(r.Categories).Prime(c)
	return c, nil
}

func (r *resolver) deleteCategory(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	err := r.Categories.Delete(p.Context, id)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return nil, err
	}
	if parsed, perr := categories.ParseID(id); perr == nil {
		FromContext(p.Context).loader(r.Categories).Clear(parsed.String())
	}
	return true, nil
}
