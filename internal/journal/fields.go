package journal

// FieldKind tells the web layer how a form field is edited and whether
// its value can carry HTML.
type FieldKind string

const (
	KindInput    FieldKind = "input"
	KindRichText FieldKind = "wysiwyg"
	KindCheckbox FieldKind = "checkbox"
	KindSlider   FieldKind = "slider"
)

type FieldSpec struct {
	Key   string
	Label string
	Kind  FieldKind
}

type SectionSpec struct {
	Name   string
	Fields []FieldSpec
}

// Form is the journal form layout. Submission processing and prompt
// building both follow this order.
var Form = []SectionSpec{
	{
		Name: "Pre-Market Prep",
		Fields: []FieldSpec{
			{Key: "trcGoal", Label: "TRC Goal", Kind: KindInput},
			{Key: "trcPlan", Label: "Plan to achieve TRC Goal", Kind: KindRichText},
			{Key: "emotionalTemp", Label: "Emotional score of the day", Kind: KindSlider},
			{Key: "emotionalReason", Label: "Reason for emotional state", Kind: KindRichText},
			{Key: "aphorisms", Label: "Aphorisms/Reminders", Kind: KindInput},
			{Key: "macroContext", Label: "Macro Context", Kind: KindRichText},
			{Key: "tradePlan", Label: "Trade Plan", Kind: KindRichText},
		},
	},
	{
		Name: "During Market",
		Fields: []FieldSpec{
			{Key: "executionNotes", Label: "Execution Notes", Kind: KindRichText},
			{Key: "hesitation", Label: "Hesitated", Kind: KindCheckbox},
			{Key: "hesitationReason", Label: "Hesitation Reason", Kind: KindRichText},
			{Key: "managementRating", Label: "Management Rating (1-5)", Kind: KindSlider},
			{Key: "managementReason", Label: "Management Reason", Kind: KindRichText},
			{Key: "stayedWithWinner", Label: "Stayed with Winners", Kind: KindCheckbox},
			{Key: "sizingOk", Label: "Sizing OK", Kind: KindCheckbox},
			{Key: "convictionTrade", Label: "Conviction Trade", Kind: KindCheckbox},
			{Key: "convictionTradeReason", Label: "Conviction Reason", Kind: KindRichText},
			{Key: "convictionSized", Label: "Sized by Conviction", Kind: KindCheckbox},
		},
	},
	{
		Name: "Post-Market Review",
		Fields: []FieldSpec{
			{Key: "loggedInStats", Label: "Logged Stats", Kind: KindCheckbox},
			{Key: "brokeRules", Label: "Broke Rules", Kind: KindCheckbox},
			{Key: "rulesExplanation", Label: "What rule did you break and why?", Kind: KindRichText},
			{Key: "trcProgress", Label: "Made progress toward TRC", Kind: KindCheckbox},
			{Key: "whyTrcProgress", Label: "Why / why not made progress toward TRC?", Kind: KindRichText},
			{Key: "learnings", Label: "Learnings", Kind: KindRichText},
			{Key: "whatIsntWorking", Label: "What isn't working", Kind: KindRichText},
			{Key: "eliminationPlan", Label: "Elimination Plan", Kind: KindRichText},
			{Key: "changePlan", Label: "Change Plan", Kind: KindRichText},
			{Key: "solutionBrainstorm", Label: "Solution Brainstorm", Kind: KindRichText},
			{Key: "adjustmentForTomorrow", Label: "Adjustment for Tomorrow", Kind: KindRichText},
			{Key: "easyTrade", Label: "Easy Trade of the Day", Kind: KindRichText},
		},
	},
	{
		Name: "Strategic",
		Fields: []FieldSpec{
			{Key: "actionsToImproveForward", Label: "Actions to improve forward", Kind: KindRichText},
			{Key: "top3MistakesToday", Label: "Top 3 mistakes of today", Kind: KindRichText},
			{Key: "top3ThingsDoneWell", Label: "Top 3 things done well today", Kind: KindRichText},
			{Key: "oneTakeawayTeaching", Label: "One takeaway to teach a junior trader", Kind: KindRichText},
			{Key: "bestAndWorstTrades", Label: "Best and worst trade today", Kind: KindRichText},
			{Key: "recurringMistake", Label: "Recurring mistake and its root cause", Kind: KindRichText},
			{Key: "todaysRepetition", Label: "If today repeated 10 more times, what changes?", Kind: KindRichText},
		},
	},
	{
		Name: "P&L",
		Fields: []FieldSpec{
			{Key: "pnlOfTheDay", Label: "P&L Summary", Kind: KindRichText},
		},
	},
}

// FieldSpecs flattens Form into submission order.
func FieldSpecs() []FieldSpec {
	var out []FieldSpec
	for _, sec := range Form {
		out = append(out, sec.Fields...)
	}
	return out
}

// LabelFor returns the display label for a field key, or the key itself
// for unknown keys.
func LabelFor(key string) string {
	for _, sec := range Form {
		for _, f := range sec.Fields {
			if f.Key == key {
				return f.Label
			}
		}
	}
	return key
}
