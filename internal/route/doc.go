// Package route holds the static route network used by the itinerary search.
//
// A Graph is built once from a Catalog and is read-only afterwards. It answers
// adjacency questions ("where can I fly from X"), point lookups ("is there an
// edge X to Y") and date gating ("is X to Y offered on D"). The catalog also
// defines multi-airport station groups and the ANY wildcard.
package route
