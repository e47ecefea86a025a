package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/biogrid/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
// Struct fields resolve through their json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	gridType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Grid",
		Fields: graphql.Fields{
			"axis":  &graphql.Field{Type: graphql.String},
			"outer": &graphql.Field{Type: boundsType},
			"step":  &graphql.Field{Type: graphql.Float},
			"cells": &graphql.Field{Type: graphql.NewList(boundsType)},
			"count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if g, ok := p.Source.(*domain.Grid); ok {
						return len(g.Cells), nil
					}
					return 0, nil
				},
			},
		},
	})

	summaryFields := graphql.Fields{
		"id":             &graphql.Field{Type: graphql.String},
		"batch_id":       &graphql.Field{Type: graphql.String},
		"site_count":     &graphql.Field{Type: graphql.Int},
		"sequence_count": &graphql.Field{Type: graphql.Int},
		"mapping_count":  &graphql.Field{Type: graphql.Int},
		"created_at":     &graphql.Field{Type: graphql.DateTime},
	}

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "ReportSummary",
		Fields: summaryFields,
	})

	reportFields := graphql.Fields{
		"sites":     &graphql.Field{Type: graphql.String},
		"sequences": &graphql.Field{Type: graphql.String},
	}
	for name, f := range summaryFields {
		reportFields[name] = &graphql.Field{Type: f.Type}
	}
	reportType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Report",
		Fields: reportFields,
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"subdivide": &graphql.Field{
				Type:        gridType,
				Description: "Split a bounding box into step-wide cells along one axis",
				Args: graphql.FieldConfigArgument{
					"minLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"maxLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"minLon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"maxLon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"step":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"axis":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "lon"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					axis, err := domain.ParseAxis(p.Args["axis"].(string))
					if err != nil {
						return nil, err
					}
					bounds := domain.Bounds{
						MinLat: p.Args["minLat"].(float64),
						MaxLat: p.Args["maxLat"].(float64),
						MinLon: p.Args["minLon"].(float64),
						MaxLon: p.Args["maxLon"].(float64),
					}
					return deps.Grid.Subdivide(p.Context, bounds, p.Args["step"].(float64), axis)
				},
			},
			"report": &graphql.Field{
				Type:        reportType,
				Description: "Get a report by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Reports.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"reports": &graphql.Field{
				Type:        graphql.NewList(summaryType),
				Description: "Most recent reports",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					list, _, err := deps.Reports.List(p.Context, p.Args["offset"].(int), p.Args["limit"].(int))
					return list, err
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
