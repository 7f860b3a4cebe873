package severity

// testCorpus is a balanced labeled corpus shared by the package tests.
var testCorpus = []Example{
	{"The app crashes every time I open settings", High},
	{"I cannot login to my account, password reset not working", High},
	{"Double charged for my subscription", High},
	{"Service is down completely", High},
	{"Data loss, my files are gone", High},
	{"Someone made unauthorized purchases on my card", High},
	{"My account was hacked and the email address changed", High},
	{"Payment failed but the money was deducted from my bank", High},
	{"The whole platform is unavailable for our entire team", High},
	{"I was charged twice this month and need a refund now", High},
	{"Checkout is completely broken, nobody can pay", High},
	{"All my saved projects disappeared after the update", High},
	{"We are locked out of the admin console and cannot work", High},
	{"Suspicious login attempts from another country on my account", High},

	{"Loading is a bit slow today", Medium},
	{"The dashboard takes a long time to load reports", Medium},
	{"My refund has been delayed for over a week", Medium},
	{"The confirmation email was not received", Medium},
	{"Search results are inconsistent between web and mobile", Medium},
	{"Some images are missing from the product page", Medium},
	{"The layout looks misaligned on my tablet", Medium},
	{"Notifications arrive late, sometimes hours after the event", Medium},
	{"Export to CSV sometimes produces an error message", Medium},
	{"Sync between devices lags behind by a few minutes", Medium},
	{"The app is sluggish when scrolling long lists", Medium},
	{"A button on the settings page does nothing when clicked", Medium},
	{"Video playback stutters on slower connections", Medium},
	{"The invoice shows the wrong billing address", Medium},

	{"How do I change my profile picture?", Low},
	{"Can you add a dark mode to the app?", Low},
	{"Where can I download my invoices?", Low},
	{"I would like to update my email preferences", Low},
	{"Is there a student discount available?", Low},
	{"Please add support for exporting to PDF", Low},
	{"What are your customer support hours?", Low},
	{"How can I invite a colleague to my workspace?", Low},
	{"Feature request: keyboard shortcuts for navigation", Low},
	{"Can I change the language of the interface?", Low},
	{"Just wanted to say the new design looks great", Low},
	{"How do I cancel my newsletter subscription?", Low},
	{"Could you explain how the loyalty points work?", Low},
	{"Suggestion: allow custom themes for the dashboard", Low},
}
