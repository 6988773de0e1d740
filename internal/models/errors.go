package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrConflict = errors.New("resource conflict, item already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidWeight indicates a shipment weight of zero or less. This is the
// one shipment input the engine rejects outright instead of returning a
// non-serviceable quote.
var ErrInvalidWeight = errors.New("shipment weight must be greater than zero")

// ErrPincodeNotFound indicates a pincode absent from the postal master.
var ErrPincodeNotFound = errors.New("pincode not found in postal master")

var ErrOrderNotDraft = errors.New("order is not in draft status")
var ErrRouteNotServiceable = errors.New("route not serviceable by the selected carrier")
// Add other common domain errors
