// Package services implements the driving ports: document ingestion,
// grounded question answering, document management, feedback, and
// usage statistics. Services hold all business rules and reach
// infrastructure only through the driven ports.
package services
