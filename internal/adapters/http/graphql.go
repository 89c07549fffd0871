package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/rfarias/geocapture/internal/core/domain"
	"github.com/rfarias/geocapture/internal/pkg/geospatial"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	captureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Capture",
		Fields: graphql.Fields{
			"seq":    &graphql.Field{Type: graphql.Int},
			"lat":    &graphql.Field{Type: graphql.Float},
			"lon":    &graphql.Field{Type: graphql.Float},
			"client": &graphql.Field{Type: graphql.String},
			"timestamp": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if rec, ok := p.Source.(domain.CapturedRecord); ok {
						return rec.TimestampText(), nil
					}
					return nil, nil
				},
			},
			"display": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if rec, ok := p.Source.(domain.CapturedRecord); ok {
						return rec.Coordinate().Display(), nil
					}
					return nil, nil
				},
			},
		},
	})

	siteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ClientSite",
		Fields: graphql.Fields{
			"name":          &graphql.Field{Type: graphql.String},
			"center":        &graphql.Field{Type: coordinateType},
			"radius_meters": &graphql.Field{Type: graphql.Float},
			"display_color": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"captures": &graphql.Field{
				Type:        graphql.NewList(captureType),
				Description: "List stored captures, newest last",
				Args: graphql.FieldConfigArgument{
					"client": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)

					var (
						records []domain.CapturedRecord
						err     error
					)
					if client, ok := p.Args["client"].(string); ok && client != "" {
						records, err = deps.Records.ListByClient(p.Context, client)
					} else {
						records, err = deps.Records.List(p.Context)
					}
					if err != nil {
						return nil, err
					}
					if limit > 0 && len(records) > limit {
						records = records[len(records)-limit:]
					}
					return records, nil
				},
			},
			"capture": &graphql.Field{
				Type:        captureType,
				Description: "Get a capture by sequence number",
				Args: graphql.FieldConfigArgument{
					"seq": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					seq := p.Args["seq"].(int)
					rec, err := deps.Records.GetBySeq(p.Context, seq)
					if err != nil {
						return nil, err
					}
					return *rec, nil
				},
			},
			"capturesNear": &graphql.Field{
				Type:        graphql.NewList(captureType),
				Description: "Captures within a radius of a point",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)

					records, err := deps.Records.List(p.Context)
					if err != nil {
						return nil, err
					}
					var out []domain.CapturedRecord
					for _, rec := range records {
						if geospatial.WithinRadius(lat, lon, rec.Lat, rec.Lon, radius) {
							out = append(out, rec)
						}
					}
					return out, nil
				},
			},
			"clients": &graphql.Field{
				Type:        graphql.NewList(siteType),
				Description: "The configured client site table",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Registry.Sites(), nil
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
		// This would be a programming error in the schema definition
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
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
