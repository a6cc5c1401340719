package lang

var enUS = &Language{
	name: "en-US",
	lines: map[string]string{
		"address.valid":   "valid",
		"address.invalid": "invalid",
		"audit.summary":   ":invalid invalid address(es) out of :checked",
	},
	validation: validationLines{
		rules: map[string]string{
			"required": "can't be blank",
			"string":   "must be a string",
			"email":    "is invalid",
			"unique":   "has already been taken",
			"exists":   "doesn't exist",
		},
		fields: map[string]string{},
	},
}
