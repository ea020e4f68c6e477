package domain

type LearningPlan struct {
	Occupation string    `mapstructure:"occupation"`
	Phases     []Phase   `mapstructure:"phases"`
	Capstone   *Capstone `mapstructure:"capstone"`
}

type Phase struct {
	Index            int      `mapstructure:"phase_index"`
	Skill            string   `mapstructure:"skill"`
	Start            string   `mapstructure:"start"`
	End              string   `mapstructure:"end"`
	WeeklyMilestones []string `mapstructure:"weekly_milestones"`
	Courses          []Course `mapstructure:"courses"`
}

type Course struct {
	Title    string `mapstructure:"title"`
	URL      string `mapstructure:"url"`
	Platform string `mapstructure:"platform"`
}

type Capstone struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

// DecodeLearningPlan reads a pass-through plan value. It reports false when
// the value is not a record carrying phases or does not decode.
func DecodeLearningPlan(raw any) (LearningPlan, bool) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return LearningPlan{}, false
	}
	if phases, ok := fields["phases"]; !ok || phases == nil {
		return LearningPlan{}, false
	}

	var plan LearningPlan
	if err := weakDecode(fields, &plan); err != nil {
		return LearningPlan{}, false
	}

	return plan, true
}
