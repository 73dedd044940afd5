package wikiquery

const paramContinue = "continue"

// ContinueBlock holds the continuation tokens of a truncated result. Its
// absence from a response means the result set is complete.
type ContinueBlock struct {
	// Continue is the mandatory top-level marker, echoed back verbatim.
	Continue     string `json:"continue"`
	ACContinue   string `json:"accontinue,omitempty"`
	CMContinue   string `json:"cmcontinue,omitempty"`
	INContinue   string `json:"incontinue,omitempty"`
	DescContinue string `json:"desccontinue,omitempty"`
	EXContinue   string `json:"excontinue,omitempty"`
}

type continueToken struct {
	key   string
	value string
}

func (c *ContinueBlock) tokens() []continueToken {
	return []continueToken{
		{paramACContinue, c.ACContinue},
		{paramCMContinue, c.CMContinue},
		{paramINContinue, c.INContinue},
		{paramDescContinue, c.DescContinue},
		{paramEXContinue, c.EXContinue},
	}
}
