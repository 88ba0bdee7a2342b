package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/usecases"
)

type sessionCtxKey struct{}

func sessionFromContext(ctx context.Context) (*usecases.Session, error) {
	sess, ok := ctx.Value(sessionCtxKey{}).(*usecases.Session)
	if !ok || sess == nil {
		return nil, errors.New("no map session")
	}
	return sess, nil
}

func viewportMap(v domain.Viewport) map[string]interface{} {
	return map[string]interface{}{
		"latitude":  v.Latitude,
		"longitude": v.Longitude,
		"zoom":      v.Zoom,
		"bearing":   v.Bearing,
		"pitch":     v.Pitch,
	}
}

func preferencesMap(p domain.Preferences) map[string]interface{} {
	return map[string]interface{}{
		"basemap":          string(p.Basemap),
		"activeLayers":     p.ActiveLayers,
		"heatmapIntensity": p.HeatmapIntensity,
		"show3DBuildings":  p.Show3DBuildings,
	}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	viewportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewport",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"zoom":      &graphql.Field{Type: graphql.Float},
			"bearing":   &graphql.Field{Type: graphql.Float},
			"pitch":     &graphql.Field{Type: graphql.Float},
		},
	})

	preferencesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Preferences",
		Fields: graphql.Fields{
			"basemap":          &graphql.Field{Type: graphql.String},
			"activeLayers":     &graphql.Field{Type: graphql.NewList(graphql.String)},
			"heatmapIntensity": &graphql.Field{Type: graphql.Float},
			"show3DBuildings":  &graphql.Field{Type: graphql.Boolean},
		},
	})

	mapStateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapState",
		Fields: graphql.Fields{
			"version":          &graphql.Field{Type: graphql.Int},
			"viewport":         &graphql.Field{Type: viewportType},
			"basemap":          &graphql.Field{Type: graphql.String},
			"activeLayers":     &graphql.Field{Type: graphql.NewList(graphql.String)},
			"heatmapIntensity": &graphql.Field{Type: graphql.Float},
			"show3DBuildings":  &graphql.Field{Type: graphql.Boolean},
			"drawMode":         &graphql.Field{Type: graphql.String},
			"hasTerritory":     &graphql.Field{Type: graphql.Boolean},
		},
	})

	roofIQType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RoofIQ",
		Fields: graphql.Fields{
			"condition":  &graphql.Field{Type: graphql.String},
			"confidence": &graphql.Field{Type: graphql.Float},
			"age_years":  &graphql.Field{Type: graphql.Int},
			"material":   &graphql.Field{Type: graphql.String},
			"area_sqft":  &graphql.Field{Type: graphql.Float},
		},
	})

	solarFitType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SolarFit",
		Fields: graphql.Fields{
			"score":                &graphql.Field{Type: graphql.Float},
			"annual_kwh_potential": &graphql.Field{Type: graphql.Float},
			"panel_count":          &graphql.Field{Type: graphql.Int},
			"roi_years":            &graphql.Field{Type: graphql.Float},
		},
	})

	propertyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Property",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"address":       &graphql.Field{Type: graphql.String},
			"city":          &graphql.Field{Type: graphql.String},
			"state":         &graphql.Field{Type: graphql.String},
			"zip":           &graphql.Field{Type: graphql.String},
			"county":        &graphql.Field{Type: graphql.String},
			"latitude":      &graphql.Field{Type: graphql.Float},
			"longitude":     &graphql.Field{Type: graphql.Float},
			"property_type": &graphql.Field{Type: graphql.String},
			"roofiq":        &graphql.Field{Type: roofIQType},
			"solarfit":      &graphql.Field{Type: solarFitType},
		},
	})

	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PropertyPage",
		Fields: graphql.Fields{
			"total":      &graphql.Field{Type: graphql.Int},
			"limit":      &graphql.Field{Type: graphql.Int},
			"offset":     &graphql.Field{Type: graphql.Int},
			"properties": &graphql.Field{Type: graphql.NewList(propertyType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"mapState": &graphql.Field{
				Type:        mapStateType,
				Description: "Map state of the calling session",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := sessionFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					st := sess.Store.State()
					return map[string]interface{}{
						"version":          int(st.Version),
						"viewport":         viewportMap(st.Viewport),
						"basemap":          string(st.Basemap),
						"activeLayers":     st.ActiveLayers.Sorted(),
						"heatmapIntensity": st.HeatmapIntensity,
						"show3DBuildings":  st.Show3DBuildings,
						"drawMode":         string(st.DrawMode),
						"hasTerritory":     st.DrawnTerritory != nil,
					}, nil
				},
			},
			"preferences": &graphql.Field{
				Type:        preferencesType,
				Description: "Persisted visual preferences of the calling session",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := sessionFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return preferencesMap(sess.Store.Preferences()), nil
				},
			},
			"properties": &graphql.Field{
				Type:        pageType,
				Description: "Properties in the current view, with the session's filters",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := sessionFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					res, err := deps.Properties.SearchInView(p.Context, sess)
					if err != nil {
						return nil, err
					}
					return res.Value, nil
				},
			},
			"propertiesNear": &graphql.Field{
				Type:        pageType,
				Description: "Properties within a radius of a point",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat, _ := p.Args["lat"].(float64)
					lon, _ := p.Args["lon"].(float64)
					radius, _ := p.Args["radius"].(float64)
					limit, _ := p.Args["limit"].(int)
					return deps.Properties.SearchNear(p.Context, lat, lon, radius, domain.PropertyFilters{Limit: &limit})
				},
			},
			"property": &graphql.Field{
				Type:        propertyType,
				Description: "Get a property by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return deps.Properties.Get(p.Context, id)
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
			return errBadRequest(c, "invalid request body")
		}

		ctx := context.WithValue(c.UserContext(), sessionCtxKey{}, sessionFrom(c))
		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})

		c.Set("Cache-Control", "no-store")
		return c.JSON(result)
	}
}
