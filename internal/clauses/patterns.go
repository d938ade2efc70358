package clauses

// Category is a clause type with the phrasings that identify it.
type Category struct {
	Type     string
	Patterns []string
}

// DefaultCategories is the built-in pattern library. Patterns are compiled
// case-insensitive with dot matching newlines.
var DefaultCategories = []Category{
	{
		Type: "liability",
		Patterns: []string{
			`liability.*?(?:limited|excluded|disclaimed)`,
			`(?:limitation|exclusion).*?liability`,
			`damages.*?(?:limited|excluded|indirect|consequential)`,
			`exclude.*?liability`,
		},
	},
	{
		Type: "confidentiality",
		Patterns: []string{
			`confidential.*?information`,
			`non-disclosure`,
			`proprietary.*?information`,
			`trade.*?secret`,
		},
	},
	{
		Type: "termination",
		Patterns: []string{
			`termination.*?(?:clause|provision)`,
			`terminate.*?agreement`,
			`end.*?(?:contract|agreement)`,
			`expir.*?(?:contract|agreement)`,
		},
	},
	{
		Type: "payment",
		Patterns: []string{
			`payment.*?terms`,
			`invoice.*?(?:payment|due)`,
			`compensation.*?amount`,
			`fees?.*?(?:schedule|payable)`,
		},
	},
	{
		Type: "intellectual_property",
		Patterns: []string{
			`intellectual.*?property`,
			`copyright.*?ownership`,
			`patent.*?rights`,
			`trademark.*?(?:usage|license)`,
		},
	},
}
