package pipeline

import "errors"

var (
	errTruckCountTooLow       = errors.New("truck count must be at least 1")
	errUnknownDepotLocation   = errors.New("depot location id not found among loaded locations")
	errUnknownPackageLocation = errors.New("package references an unknown location id")
	errUnknownPackage         = errors.New("unknown package id")
	errUnreachableLocation    = errors.New("package delivery location is unreachable from the depot")
)
