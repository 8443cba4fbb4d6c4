// Package graph exposes the same operations as the REST handlers through a
// GraphQL schema: scoped queries over stations and appointments plus the
// booking mutations. Both surfaces resolve through the identical services.
package graph

import (
	"fmt"

	"stationbook/internal/middleware"
	"stationbook/internal/models"
	"stationbook/internal/policy"
	"stationbook/internal/services"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
)

type Resolver struct {
	stations     *services.StationService
	appointments *services.AppointmentService
	serviceTypes *services.ServiceTypeService
}

func NewResolver(stations *services.StationService, appointments *services.AppointmentService, serviceTypes *services.ServiceTypeService) *Resolver {
	return &Resolver{stations: stations, appointments: appointments, serviceTypes: serviceTypes}
}

func principalFrom(p graphql.ResolveParams) (policy.Principal, error) {
	pr, ok := middleware.PrincipalFrom(p.Context)
	if !ok {
		return policy.Principal{}, fmt.Errorf("unauthenticated")
	}
	return pr, nil
}

func uuidArg(p graphql.ResolveParams, name string) (uuid.UUID, error) {
	raw, _ := p.Args[name].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func optString(p graphql.ResolveParams, name string) *string {
	if v, ok := p.Args[name].(string); ok {
		return &v
	}
	return nil
}

func optUUID(p graphql.ResolveParams, name string) (*uuid.UUID, error) {
	raw, ok := p.Args[name].(string)
	if !ok {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &id, nil
}

// mutationResult mirrors the REST error contract: ok plus a list of error
// strings, with the payload attached on success.
type mutationResult struct {
	OK      bool     `json:"ok"`
	Errors  []string `json:"errors"`
	Payload any      `json:"payload"`
}

func failure(err error) mutationResult {
	return mutationResult{OK: false, Errors: []string{err.Error()}}
}

func success(payload any) mutationResult {
	return mutationResult{OK: true, Errors: []string{}, Payload: payload}
}

var serviceTypeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ServiceType",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
	},
})

var serviceStationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ServiceStation",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.String},
		"name":      &graphql.Field{Type: graphql.String},
		"owner_id":  &graphql.Field{Type: graphql.String},
		"address":   &graphql.Field{Type: graphql.String},
		"latitude":  &graphql.Field{Type: graphql.Float},
		"longitude": &graphql.Field{Type: graphql.Float},
		"phone":     &graphql.Field{Type: graphql.String},
		"email":     &graphql.Field{Type: graphql.String},
		"is_active": &graphql.Field{Type: graphql.Boolean},
	},
})

var appointmentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Appointment",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.String},
		"user_id":         &graphql.Field{Type: graphql.String},
		"station_id":      &graphql.Field{Type: graphql.String},
		"service_type_id": &graphql.Field{Type: graphql.String},
		"appointment_date": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch src := p.Source.(type) {
				case models.Appointment:
					return src.Date.Format("2006-01-02"), nil
				case *models.Appointment:
					return src.Date.Format("2006-01-02"), nil
				case services.AppointmentView:
					return src.Date.Format("2006-01-02"), nil
				}
				return nil, nil
			},
		},
		"appointment_time": &graphql.Field{Type: graphql.String},
		"status":           &graphql.Field{Type: graphql.String},
		"notes":            &graphql.Field{Type: graphql.String},
	},
})

var appointmentViewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AppointmentView",
	Fields: graphql.Fields{
		"id":                &graphql.Field{Type: graphql.String},
		"user_id":           &graphql.Field{Type: graphql.String},
		"station_id":        &graphql.Field{Type: graphql.String},
		"service_type_id":   &graphql.Field{Type: graphql.String},
		"appointment_time":  &graphql.Field{Type: graphql.String},
		"status":            &graphql.Field{Type: graphql.String},
		"notes":             &graphql.Field{Type: graphql.String},
		"station_name":      &graphql.Field{Type: graphql.String},
		"service_type_name": &graphql.Field{Type: graphql.String},
		"user_name":         &graphql.Field{Type: graphql.String},
		"appointment_date": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if v, ok := p.Source.(services.AppointmentView); ok {
					return v.Date.Format("2006-01-02"), nil
				}
				return nil, nil
			},
		},
	},
})

func mutationPayload(name string, payloadType graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"ok":     &graphql.Field{Type: graphql.Boolean},
			"errors": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"payload": &graphql.Field{
				Type: payloadType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if res, ok := p.Source.(mutationResult); ok {
						return res.Payload, nil
					}
					return nil, nil
				},
			},
		},
	})
}

// Schema builds the executable schema over the resolver's services.
func (r *Resolver) Schema() (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"appointments": &graphql.Field{
				Type: graphql.NewList(appointmentViewType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					return r.appointments.List(p.Context, pr, nil)
				},
			},
			"appointment": &graphql.Field{
				Type: appointmentViewType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := uuidArg(p, "id")
					if err != nil {
						return nil, err
					}
					view, err := r.appointments.Get(p.Context, pr, id)
					if err != nil {
						if models.IsNotFound(err) {
							return nil, nil
						}
						return nil, err
					}
					return *view, nil
				},
			},
			"user_appointments": &graphql.Field{
				Type: graphql.NewList(appointmentViewType),
				Args: graphql.FieldConfigArgument{
					"user_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					userID, err := uuidArg(p, "user_id")
					if err != nil {
						return nil, err
					}
					return r.appointments.ListForUser(p.Context, pr, userID)
				},
			},
			"station_appointments": &graphql.Field{
				Type: graphql.NewList(appointmentViewType),
				Args: graphql.FieldConfigArgument{
					"station_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					stationID, err := uuidArg(p, "station_id")
					if err != nil {
						return nil, err
					}
					return r.appointments.ListForStation(p.Context, pr, stationID)
				},
			},
			"service_stations": &graphql.Field{
				Type: graphql.NewList(serviceStationType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					return r.stations.List(p.Context, pr)
				},
			},
			"active_service_stations": &graphql.Field{
				Type: graphql.NewList(serviceStationType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					stations, err := r.stations.List(p.Context, pr)
					if err != nil {
						return nil, err
					}
					active := make([]models.ServiceStation, 0, len(stations))
					for _, s := range stations {
						if s.IsActive {
							active = append(active, s)
						}
					}
					return active, nil
				},
			},
			"service_station": &graphql.Field{
				Type: serviceStationType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := uuidArg(p, "id")
					if err != nil {
						return nil, err
					}
					station, err := r.stations.Get(p.Context, pr, id)
					if err != nil {
						if models.IsNotFound(err) {
							return nil, nil
						}
						return nil, err
					}
					return *station, nil
				},
			},
			"service_types": &graphql.Field{
				Type: graphql.NewList(serviceTypeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := principalFrom(p); err != nil {
						return nil, err
					}
					return r.serviceTypes.List(p.Context)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"create_appointment": &graphql.Field{
				Type: mutationPayload("CreateAppointmentResult", appointmentType),
				Args: graphql.FieldConfigArgument{
					"station_id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"service_type_id":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"appointment_date": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"appointment_time": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"status":           &graphql.ArgumentConfig{Type: graphql.String},
					"notes":            &graphql.ArgumentConfig{Type: graphql.String},
					"user_id":          &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					stationID, err := uuidArg(p, "station_id")
					if err != nil {
						return failure(err), nil
					}
					serviceTypeID, err := uuidArg(p, "service_type_id")
					if err != nil {
						return failure(err), nil
					}
					userID, err := optUUID(p, "user_id")
					if err != nil {
						return failure(err), nil
					}

					in := services.AppointmentInput{
						UserID:        userID,
						StationID:     stationID,
						ServiceTypeID: serviceTypeID,
						Date:          p.Args["appointment_date"].(string),
						Time:          p.Args["appointment_time"].(string),
					}
					if s := optString(p, "status"); s != nil {
						in.Status = *s
					}
					if n := optString(p, "notes"); n != nil {
						in.Notes = *n
					}

					apt, err := r.appointments.Create(p.Context, pr, in)
					if err != nil {
						return failure(err), nil
					}
					return success(*apt), nil
				},
			},
			"update_appointment": &graphql.Field{
				Type: mutationPayload("UpdateAppointmentResult", appointmentType),
				Args: graphql.FieldConfigArgument{
					"id":               &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"station_id":       &graphql.ArgumentConfig{Type: graphql.String},
					"service_type_id":  &graphql.ArgumentConfig{Type: graphql.String},
					"appointment_date": &graphql.ArgumentConfig{Type: graphql.String},
					"appointment_time": &graphql.ArgumentConfig{Type: graphql.String},
					"status":           &graphql.ArgumentConfig{Type: graphql.String},
					"notes":            &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := uuidArg(p, "id")
					if err != nil {
						return failure(err), nil
					}
					stationID, err := optUUID(p, "station_id")
					if err != nil {
						return failure(err), nil
					}
					serviceTypeID, err := optUUID(p, "service_type_id")
					if err != nil {
						return failure(err), nil
					}

					in := services.AppointmentUpdate{
						StationID:     stationID,
						ServiceTypeID: serviceTypeID,
						Date:          optString(p, "appointment_date"),
						Time:          optString(p, "appointment_time"),
						Status:        optString(p, "status"),
						Notes:         optString(p, "notes"),
					}
					apt, err := r.appointments.Update(p.Context, pr, id, in)
					if err != nil {
						return failure(err), nil
					}
					return success(*apt), nil
				},
			},
			"delete_appointment": &graphql.Field{
				Type: mutationPayload("DeleteAppointmentResult", appointmentType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := uuidArg(p, "id")
					if err != nil {
						return failure(err), nil
					}
					if err := r.appointments.Delete(p.Context, pr, id); err != nil {
						return failure(err), nil
					}
					return success(nil), nil
				},
			},
			"create_service_station": &graphql.Field{
				Type: mutationPayload("CreateServiceStationResult", serviceStationType),
				Args: graphql.FieldConfigArgument{
					"name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"address":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"is_active": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"latitude":  &graphql.ArgumentConfig{Type: graphql.Float},
					"longitude": &graphql.ArgumentConfig{Type: graphql.Float},
					"owner_id":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					ownerID, err := optUUID(p, "owner_id")
					if err != nil {
						return failure(err), nil
					}

					in := services.StationInput{
						Name:    p.Args["name"].(string),
						Address: p.Args["address"].(string),
						Phone:   p.Args["phone"].(string),
						Email:   p.Args["email"].(string),
						OwnerID: ownerID,
					}
					if v, ok := p.Args["is_active"].(bool); ok {
						in.IsActive = &v
					}
					if v, ok := p.Args["latitude"].(float64); ok {
						in.Latitude = &v
					}
					if v, ok := p.Args["longitude"].(float64); ok {
						in.Longitude = &v
					}

					station, err := r.stations.Create(p.Context, pr, in)
					if err != nil {
						return failure(err), nil
					}
					return success(*station), nil
				},
			},
			"add_service_type": &graphql.Field{
				Type: mutationPayload("AddServiceTypeResult", serviceTypeType),
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"price":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := principalFrom(p); err != nil {
						return nil, err
					}
					in := services.ServiceTypeInput{
						Name:        p.Args["name"].(string),
						Description: p.Args["description"].(string),
						Price:       p.Args["price"].(float64),
					}
					st, err := r.serviceTypes.Create(p.Context, in)
					if err != nil {
						return failure(err), nil
					}
					return success(*st), nil
				},
			},
			"update_service_type": &graphql.Field{
				Type: mutationPayload("UpdateServiceTypeResult", serviceTypeType),
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":        &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"price":       &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := principalFrom(p); err != nil {
						return nil, err
					}
					id, err := uuidArg(p, "id")
					if err != nil {
						return failure(err), nil
					}
					in := services.ServiceTypeUpdate{
						Name:        optString(p, "name"),
						Description: optString(p, "description"),
					}
					if v, ok := p.Args["price"].(float64); ok {
						in.Price = &v
					}
					st, err := r.serviceTypes.Update(p.Context, id, in)
					if err != nil {
						return failure(err), nil
					}
					return success(*st), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
