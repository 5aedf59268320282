// Package testkit provides fixtures and synthetic datasets for tests and demos.
package testkit

// ScenarioCSV is the six-row dataset with one missing cell used across tests
const ScenarioCSV = "a,b\n1,\n2,4\n3,6\n4,8\n5,10\n6,12\n"

// MixedCSV has numeric columns with gaps plus a categorical column
const MixedCSV = "price,qty,city\n9.5,3,Lima\n,4,Quito\n11,,Lima\n12.5,6,\n8,2,Cusco\n10,5,Lima\n7.5,1,Quito\n"

// CategoricalCSV has no numeric column at all
const CategoricalCSV = "name,city\nana,Lima\nbo,Quito\n"

// RaggedCSV has a row with a missing field
const RaggedCSV = "a,b\n1,2\n3\n"
