// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contacts

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/contactly/internal/platform/middleware"
	requestutil "github.com/taibuivan/contactly/internal/platform/request"
	"github.com/taibuivan/contactly/internal/platform/respond"
	"github.com/taibuivan/contactly/pkg/pagination"
)

// Handler implements the HTTP layer for the contact book.
type Handler struct {
	service  *Service
	resolver middleware.IdentityResolver
}

// NewHandler constructs a contact [Handler]. Every route requires a bearer
// token resolved by resolver.
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with the contact endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(handler.resolver))

	router.Get("/birthdays", handler.upcomingBirthdays)

	router.Get("/", handler.listContacts)
	router.Post("/", handler.createContact)

	router.Get("/{"+FieldID+"}", handler.getContact)
	router.Put("/{"+FieldID+"}", handler.updateContact)
	router.Delete("/{"+FieldID+"}", handler.deleteContact)

	return router
}

/*
GET /api/contacts/birthdays?days=N.

Response:
  - 200: []Contact ordered by month and day of birth
  - 400: ValidationError: days is not an integer ≥ 1
*/
func (handler *Handler) upcomingBirthdays(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	days, err := requestutil.QueryInt(request, FieldDays, DefaultBirthdayDays)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contacts, err := handler.service.UpcomingBirthdays(request.Context(), owner, days)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, contacts)
}

/*
GET /api/contacts/?firstname=&lastname=&email=&skip=&limit=.

Response:
  - 200: []Contact ordered by id
*/
func (handler *Handler) listContacts(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := pagination.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	filter := Filter{
		FirstName: query.Get(FieldFirstName),
		LastName:  query.Get(FieldLastName),
		Email:     query.Get(FieldEmail),
	}

	contacts, err := handler.service.ListContacts(request.Context(), owner, filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, contacts)
}

func (handler *Handler) getContact(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contactID, err := requestutil.PositiveID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contact, err := handler.service.GetContact(request.Context(), owner, contactID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, contact)
}

/*
POST /api/contacts/.

Response:
  - 201: Contact
  - 400: ValidationError or DuplicateContact
*/
func (handler *Handler) createContact(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contact, err := handler.service.CreateContact(request.Context(), owner, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, contact)
}

func (handler *Handler) updateContact(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contactID, err := requestutil.PositiveID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contact, err := handler.service.UpdateContact(request.Context(), owner, contactID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, contact)
}

func (handler *Handler) deleteContact(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contactID, err := requestutil.PositiveID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.DeleteContact(request.Context(), owner, contactID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, fmt.Sprintf("Contact with ID %d successfully deleted.", contactID))
}
