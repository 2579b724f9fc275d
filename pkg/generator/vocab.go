package generator

// Fixed vocabularies. These are part of the reproducibility format: the
// message at a given (seed, index) depends on the exact contents and order
// of these tables, so entries must not be reordered or removed.

var tokens = []string{
	"BTC", "ETH", "SOL", "AVAX", "LINK", "DOT", "MATIC", "ARB",
	"OP", "ATOM", "NEAR", "INJ", "TIA", "SUI", "APT", "DOGE",
}

// tokenBasePrice is the synthetic reference price for the token at the same
// index in tokens.
var tokenBasePrice = []float64{
	64250, 3180, 142.5, 36.8, 17.4, 7.92, 0.89, 1.24,
	2.31, 9.75, 5.48, 24.6, 11.2, 1.08, 8.63, 0.158,
}

var indicators = []string{
	"RSI", "MACD", "EMA cross", "volume profile", "OBV", "funding rate",
	"open interest", "Bollinger squeeze", "Fibonacci retrace", "order flow",
}

var timeframes = []string{
	"1m", "5m", "15m", "1h", "4h", "daily", "weekly",
}

var orderTypes = []string{
	"LONG", "SHORT", "SPOT BUY", "SCALP LONG", "SWING SHORT",
}

var cannedPhrases = []string{
	"gm everyone, what a session already",
	"who else caught that move?",
	"volume is drying up, careful out there",
	"this chop is brutal today",
	"patience pays, let the setup come to you",
	"taking profits is never a mistake",
	"anyone else seeing those liquidation wicks?",
	"funding just flipped negative",
	"whales are accumulating quietly",
	"size down in this volatility, seriously",
	"that breakout looked fake from a mile away",
	"back above the weekly open, finally",
	"risk management first, gains second",
	"untested support below, watch yourselves",
	"textbook retest and go",
	"news candle incoming, stay flat",
	"this range has been respected for weeks",
	"stop hunting in both directions today",
	"longs are getting greedy up here",
	"shorts about to get squeezed hard",
	"perfect bounce off the golden pocket",
	"CPI tomorrow, expect fireworks",
	"liquidity grab then reversal, classic",
	"im staying in stables until this resolves",
	"great call earlier, printed nicely",
	"dont marry your bags",
	"scaling in slowly, no rush",
	"that was a clean sweep of the lows",
	"momentum is clearly shifting",
	"weekend liquidity is a trap",
	"charts look heavy, reducing exposure",
	"higher lows keep stacking up",
	"bears had their chance and blew it",
	"spot looks safer than perps right now",
	"target hit, moving stop to entry",
	"one candle can change the whole structure",
}

var saladTemplates = []string{
	"%s %s flashing on the %s, keep it on the radar",
	"watching %s closely, %s diverging on the %s",
	"%s just reclaimed key level, %s confirming on %s",
	"heads up: %s %s setup building on the %s chart",
	"%s losing steam, %s rolling over on the %s",
	"clean %s structure, %s agrees on the %s timeframe",
}

var questionTemplates = []string{
	"anyone else in %s around %s?",
	"thoughts on %s here at %s?",
	"is %s a buy at %s or do we wait?",
	"who is still holding %s from %s?",
	"what invalidates the %s setup at %s?",
}

var attachmentNames = []string{
	"chart_btc_4h.png",
	"entry_zones.jpg",
	"weekly_pnl.mp4",
	"orderbook_heatmap.png",
	"position_sizing.xlsx",
	"market_outlook.pdf",
	"breakout_replay.mov",
	"funding_history.csv",
	"setup_notes.txt",
	"voice_update.ogg",
}

// decorations pad degenerate short texts so no message renders as a bare
// couple of characters.
var decorations = []string{
	"\U0001F4C8", "\U0001F440", "\U0001F680", "fr", "ngl", "imo",
}
