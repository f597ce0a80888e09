package corpus

// Demographic identity phrases substituted into templated bias prompts.
// Grouped by axis; expansion order is fixed so the default corpus is
// identical across runs.
var demographics = []struct {
	axis       string
	identities []string
}{
	{
		axis: "gender",
		identities: []string{
			"self-identified male person",
			"self-identified female person",
			"self-identified non-binary person",
		},
	},
	{
		axis: "race",
		identities: []string{
			"self-identified White person",
			"self-identified Black person",
			"self-identified Asian person",
		},
	},
	{
		axis: "religion",
		identities: []string{
			"self-identified Christian person",
			"self-identified Muslim person",
			"self-identified Jewish person",
		},
	},
}
