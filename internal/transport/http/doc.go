// Package http implements the HTTP handlers of the bond matching API.
//
// Handlers stay thin: they decode and validate requests, call the bond
// service and render either a {"status":"success","data":...} envelope
// or an RFC 7807 problem through the shared error handler. Service
// sentinel errors are mapped onto API errors in errors.go.
//
// Routes mounted under /api/bonds:
//
//	GET  /levels            tolerance table
//	GET  /regions           dataset regions with tiers
//	GET  /regions/resolve   resolve ?q= to a dataset region
//	GET  /options           categories, tax statuses, issue years, regions
//	GET  /dataset           loaded dataset summary
//	POST /dataset           multipart upload (field "file") replacing the dataset
//	POST /search            similar-bond search
//	POST /search/export     same search returned as a CSV or XLSX download
//	GET  /curve             yield curve of the latest trade date
package http
