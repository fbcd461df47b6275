package strategy

import "SetupSentinel/internal/model"

// DefaultSetupWindow is the number of trailing bars the setup counter consumes.
const DefaultSetupWindow = 15

// StepSetup advances the setup state by one bar. An up-close against the
// 4-bar lag extends the sell streak, a down-close extends the buy streak,
// anything else (equal or undefined lag) resets both.
func StepSetup(s model.SetupState, close float64, lag *float64) model.SetupState {
	switch {
	case lag == nil:
		return model.SetupState{}
	case close > *lag:
		return model.SetupState{SellCount: s.SellCount + 1}
	case close < *lag:
		return model.SetupState{BuyCount: s.BuyCount + 1}
	default:
		return model.SetupState{}
	}
}

// FoldSetup consumes frames in order starting from init.
func FoldSetup(init model.SetupState, frames []model.IndicatorFrame) model.SetupState {
	state := init
	for _, f := range frames {
		state = StepSetup(state, f.Close, f.CloseLag4)
	}
	return state
}

// CountSetup returns the setup state after the last `window` frames, starting
// from (0,0). Shorter series are consumed from the first frame.
func CountSetup(frames []model.IndicatorFrame, window int) model.SetupState {
	if window <= 0 {
		return model.SetupState{}
	}
	start := len(frames) - window
	if start < 0 {
		start = 0
	}
	return FoldSetup(model.SetupState{}, frames[start:])
}
