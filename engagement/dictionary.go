package engagement

// EmailCopy holds the localized text slots for one email type. Strings may
// carry {{token}} placeholders filled in by the generators.
type EmailCopy struct {
	Subject             string
	Hook                string
	MainMessage         string
	FastUserMainMessage string
	GenericInsight      string
	GenericTip          string
	SpecificAction      string
	Encouragement       string
}

// ValueTopic is one entry of the rotating long-term value track.
type ValueTopic struct {
	Subject       string
	Hook          string
	MainMessage   string
	Encouragement string
}

// ActionCopy localizes the "next best action" suggestions.
type ActionCopy struct {
	UploadPhotos          string
	CompleteAbout         string
	SetPreferences        string
	ContinueQuestionnaire string
	ViewPreview           string
	AllDone               string
	EstimatedMinutes      string
}

// ActivityCopy localizes the evening summary of today's actions.
type ActivityCopy struct {
	NewPhotos     string
	Questionnaire string
	ProfileUpdate string
}

// EmailDictionary is the full localized copy set for one language.
type EmailDictionary struct {
	CTAText  string
	Actions  ActionCopy
	Activity ActivityCopy

	WorldNames map[string]string

	OnboardingDay1             EmailCopy
	OnboardingPhotos           EmailCopy
	OnboardingAiTeaser         EmailCopy
	OnboardingQuestionnaireWhy EmailCopy
	OnboardingValueAdd         EmailCopy
	PhotoNudge                 EmailCopy
	QuestionnaireNudge         EmailCopy
	Celebration                EmailCopy
	AiSummary                  EmailCopy
	EveningFeedback            EmailCopy

	AiSummaryGenericSummary string
	ValueTopics             []ValueTopic
}

// StaticDictionaryProvider serves the embedded dictionaries. Unknown
// locales fall back to English.
type StaticDictionaryProvider struct{}

func NewStaticDictionaryProvider() *StaticDictionaryProvider {
	return &StaticDictionaryProvider{}
}

func (StaticDictionaryProvider) GetEmailDictionary(locale string) *EmailDictionary {
	if d, ok := dictionaries[locale]; ok {
		return d
	}
	return dictionaries["en"]
}

var dictionaries = map[string]*EmailDictionary{
	"he": hebrewDictionary,
	"en": englishDictionary,
}

var hebrewDictionary = &EmailDictionary{
	CTAText: "להמשך בניית הפרופיל",
	Actions: ActionCopy{
		UploadPhotos:          "העלאת {{count}} תמונות נוספות",
		CompleteAbout:         "השלמת הקטע האישי בפרופיל",
		SetPreferences:        "הגדרת טווח הגילאים המועדף",
		ContinueQuestionnaire: "המשך השאלון מעולם {{worldName}}",
		ViewPreview:           "צפייה בתצוגה המקדימה של הפרופיל",
		AllDone:               "הפרופיל שלך מוכן, כל הכבוד!",
		EstimatedMinutes:      "{{min}}-{{max}} דקות",
	},
	Activity: ActivityCopy{
		NewPhotos:     "{{count}} תמונות חדשות",
		Questionnaire: "התקדמות בשאלון",
		ProfileUpdate: "עדכון פרטי הפרופיל",
	},
	WorldNames: map[string]string{
		"VALUES":       "ערכים",
		"PERSONALITY":  "אישיות",
		"RELATIONSHIP": "זוגיות",
		"PARTNER":      "בן/בת הזוג",
		"RELIGION":     "אמונה",
	},
	OnboardingDay1: EmailCopy{
		Subject:             "{{firstName}}, ברוכים הבאים! הצעד הראשון שלך מתחיל כאן",
		Hook:                "איזה כיף שהצטרפת אלינו, {{firstName}}!",
		MainMessage:         "המסע למציאת הקשר הנכון מתחיל בפרופיל שמספר מי אתם באמת. כמה דקות ביום מספיקות כדי להתקדם.",
		FastUserMainMessage: "הספקת להתקדם יפה כבר ביום הראשון! הפרופיל שלך כבר ב-{{completion}}% והכיוון מצוין.",
		Encouragement:       "אנחנו כאן ללוות אותך בכל שלב.",
	},
	OnboardingPhotos: EmailCopy{
		Subject:        "{{firstName}}, הפרופיל שלך מחכה לתמונות",
		Hook:           "פרופיל עם תמונות מקבל פי כמה יותר תשומת לב.",
		MainMessage:    "נשארו לך {{missingCount}} תמונות להשלמת הפרופיל. תמונה טובה היא הדרך הכי מהירה ליצור רושם ראשוני אמיתי.",
		SpecificAction: "העלאת {{missingCount}} תמונות",
		Encouragement:  "זה לוקח פחות מחמש דקות.",
	},
	OnboardingAiTeaser: EmailCopy{
		Subject:        "{{firstName}}, המערכת כבר לומדת אותך",
		Hook:           "הניתוח החכם שלנו התחיל לעבוד עליך.",
		MainMessage:    "ככל שתענו על יותר שאלות בשאלון, הניתוח יידע לזהות התאמות מדויקות יותר עבורך.",
		GenericInsight: "כבר מהפרטים הראשונים ניכר שיש לך תמונה ברורה של מה חשוב לך בקשר.",
		SpecificAction: "התחלת השאלון",
		Encouragement:  "כל תשובה מחדדת את התמונה.",
	},
	OnboardingQuestionnaireWhy: EmailCopy{
		Subject:        "{{firstName}}, למה השאלון הוא הלב של התהליך",
		Hook:           "התחלת יפה, ושווה להמשיך.",
		MainMessage:    "השאלון הוא לא עוד טופס. הוא הבסיס שעליו השדכנים והמערכת מזהים התאמות אמיתיות. אתם ב-{{completion}}%, וכל עולם שמשלימים מקרב אתכם.",
		SpecificAction: "המשך השאלון",
		Encouragement:  "נשאר פחות ממה שנדמה.",
	},
	OnboardingValueAdd: EmailCopy{
		Subject:        "{{firstName}}, טיפ אישי מהמערכת שלנו",
		Hook:           "השלמת את רוב הדרך, הגיע הזמן לצעד שמבדל.",
		MainMessage:    "פרופילים שמוסיפים המלצה מחבר או חברה נתפסים אמינים וחמים יותר. שווה לבקש מחבר קרוב לכתוב עליך כמה מילים.",
		GenericTip:     "המלצה קצרה מאדם שמכיר אותך היטב שווה יותר מכל תיאור עצמי.",
		SpecificAction: "בקשת המלצה מחבר",
		Encouragement:  "זה הצעד שהופך פרופיל טוב למצוין.",
	},
	PhotoNudge: EmailCopy{
		Subject:        "{{firstName}}, תזכורת קטנה: התמונות שלך",
		Hook:           "הפרופיל שלך כמעט שם.",
		MainMessage:    "חסרות עוד {{missingCount}} תמונות. פרופיל עם שלוש תמונות מקבל משמעותית יותר פניות.",
		SpecificAction: "העלאת {{missingCount}} תמונות",
		Encouragement:  "חמש דקות ואתם שם.",
	},
	QuestionnaireNudge: EmailCopy{
		Subject:        "{{firstName}}, עולם {{worldName}} מחכה לך",
		Hook:           "המשך מאיפה שעצרת.",
		MainMessage:    "עולם {{worldName}} בשאלון עדיין ממתין לתשובות שלך. כל עולם שמושלם משפר את איכות ההתאמות.",
		SpecificAction: "המשך השאלון מעולם {{worldName}}",
		Encouragement:  "צעד צעד, בקצב שלך.",
	},
	Celebration: EmailCopy{
		Subject:        "{{firstName}}, אתם ב-{{completion}}%! כמעט בקו הסיום",
		Hook:           "וואו, איזו התקדמות!",
		MainMessage:    "הפרופיל שלך כמעט מושלם. עוד צעד אחד קטן והמערכת תתחיל לעבוד בשבילך במלוא העוצמה.",
		SpecificAction: "השלמת הפרטים האחרונים",
		Encouragement:  "הישורת האחרונה!",
	},
	AiSummary: EmailCopy{
		Subject:       "{{firstName}}, כך הפרופיל שלך נראה מבחוץ",
		Hook:          "המערכת ניתחה את הפרופיל שלך, והנה מה שעולה ממנו.",
		MainMessage:   "ריכזנו עבורך תמונת מצב של הפרופיל, מה שכבר עובד ומה שעוד אפשר לחדד.",
		Encouragement: "כל שיפור קטן מורגש בהתאמות.",
	},
	EveningFeedback: EmailCopy{
		Subject:       "{{firstName}}, סיכום יום יפה של התקדמות",
		Hook:          "ראינו שעבדת היום על הפרופיל, כל הכבוד!",
		MainMessage:   "הנה מה שהספקת היום והצעד הבא שיקדם אותך.",
		Encouragement: "עוד יום כזה ואתם שם.",
	},
	AiSummaryGenericSummary: "הפרופיל שלך משדר רצינות וכנות. השלמת הפרטים החסרים תיתן לו את העומק שההתאמות הטובות מחפשות.",
	ValueTopics: []ValueTopic{
		{
			Subject:       "{{firstName}}, מה הופך פרופיל לבולט באמת",
			Hook:          "טיפ מהניסיון של השדכנים שלנו.",
			MainMessage:   "פרופילים שמספרים סיפור אישי קטן, ולא רק עובדות, זוכים להרבה יותר פניות רציניות.",
			Encouragement: "שווה לרענן את הקטע האישי מדי פעם.",
		},
		{
			Subject:       "{{firstName}}, שאלה טובה לפגישה ראשונה",
			Hook:          "משהו קטן שלמדנו מאלפי היכרויות.",
			MainMessage:   "שאלה פתוחה על חוויה משמעותית פותחת שיחה אמיתית הרבה יותר מסמול טוק. נסו את זה בהיכרות הבאה.",
			Encouragement: "סקרנות אמיתית היא הקסם הכי גדול.",
		},
		{
			Subject:       "{{firstName}}, הפרופיל שלך הוא סיפור חי",
			Hook:          "דברים משתנים, וגם אתם.",
			MainMessage:   "עדכון קטן בפרופיל אחרי תקופה, תמונה חדשה או שורה על מה שמעסיק אתכם עכשיו, שומר אותו רלוונטי ואמיתי.",
			Encouragement: "הפרופיל הכי טוב הוא זה שמתעדכן איתכם.",
		},
	},
}

var englishDictionary = &EmailDictionary{
	CTAText: "Continue building your profile",
	Actions: ActionCopy{
		UploadPhotos:          "Upload {{count}} more photos",
		CompleteAbout:         "Complete the about section",
		SetPreferences:        "Set your preferred age range",
		ContinueQuestionnaire: "Continue the {{worldName}} questionnaire",
		ViewPreview:           "View your profile preview",
		AllDone:               "Your profile is complete, well done!",
		EstimatedMinutes:      "{{min}}-{{max}} minutes",
	},
	Activity: ActivityCopy{
		NewPhotos:     "{{count}} new photos",
		Questionnaire: "questionnaire progress",
		ProfileUpdate: "profile update",
	},
	WorldNames: map[string]string{
		"VALUES":       "Values",
		"PERSONALITY":  "Personality",
		"RELATIONSHIP": "Relationship",
		"PARTNER":      "Partner",
		"RELIGION":     "Faith",
	},
	OnboardingDay1: EmailCopy{
		Subject:             "{{firstName}}, welcome! Your first step starts here",
		Hook:                "So glad you joined us, {{firstName}}!",
		MainMessage:         "Finding the right match starts with a profile that tells who you really are. A few minutes a day is all it takes.",
		FastUserMainMessage: "Great progress on day one! Your profile is already at {{completion}}% and heading in the right direction.",
		Encouragement:       "We are here with you every step of the way.",
	},
	OnboardingPhotos: EmailCopy{
		Subject:        "{{firstName}}, your profile is waiting for photos",
		Hook:           "Profiles with photos get far more attention.",
		MainMessage:    "You have {{missingCount}} photos left to complete your profile. A good photo is the fastest way to make a real first impression.",
		SpecificAction: "Upload {{missingCount}} photos",
		Encouragement:  "It takes less than five minutes.",
	},
	OnboardingAiTeaser: EmailCopy{
		Subject:        "{{firstName}}, the system is already learning about you",
		Hook:           "Our smart analysis has started working for you.",
		MainMessage:    "The more questionnaire answers you give, the more precise your matches become.",
		GenericInsight: "Even from the first details it is clear you know what matters to you in a relationship.",
		SpecificAction: "Start the questionnaire",
		Encouragement:  "Every answer sharpens the picture.",
	},
	OnboardingQuestionnaireWhy: EmailCopy{
		Subject:        "{{firstName}}, why the questionnaire is the heart of the process",
		Hook:           "You made a good start, keep it going.",
		MainMessage:    "The questionnaire is not just a form. It is what lets our matchmakers and system find real matches. You are at {{completion}}%, and every world you finish gets you closer.",
		SpecificAction: "Continue the questionnaire",
		Encouragement:  "Less is left than you think.",
	},
	OnboardingValueAdd: EmailCopy{
		Subject:        "{{firstName}}, a personal tip from our system",
		Hook:           "You have come most of the way. Time for the step that sets you apart.",
		MainMessage:    "Profiles with a testimonial from a friend come across warmer and more trustworthy. Ask a close friend to write a few words about you.",
		GenericTip:     "A short testimonial from someone who knows you well is worth more than any self description.",
		SpecificAction: "Ask a friend for a testimonial",
		Encouragement:  "This is the step that turns a good profile into a great one.",
	},
	PhotoNudge: EmailCopy{
		Subject:        "{{firstName}}, a small reminder about your photos",
		Hook:           "Your profile is almost there.",
		MainMessage:    "You are {{missingCount}} photos short. Profiles with three photos get significantly more interest.",
		SpecificAction: "Upload {{missingCount}} photos",
		Encouragement:  "Five minutes and you are done.",
	},
	QuestionnaireNudge: EmailCopy{
		Subject:        "{{firstName}}, the {{worldName}} world is waiting for you",
		Hook:           "Pick up where you left off.",
		MainMessage:    "The {{worldName}} world of the questionnaire is still waiting for your answers. Every completed world improves match quality.",
		SpecificAction: "Continue the {{worldName}} questionnaire",
		Encouragement:  "Step by step, at your own pace.",
	},
	Celebration: EmailCopy{
		Subject:        "{{firstName}}, you are at {{completion}}%! Almost at the finish line",
		Hook:           "Wow, what progress!",
		MainMessage:    "Your profile is nearly perfect. One more small step and the system starts working for you at full power.",
		SpecificAction: "Complete the last details",
		Encouragement:  "The home stretch!",
	},
	AiSummary: EmailCopy{
		Subject:       "{{firstName}}, here is how your profile looks from the outside",
		Hook:          "The system analyzed your profile. Here is what stands out.",
		MainMessage:   "We put together a snapshot of your profile, what already works and what could still be sharpened.",
		Encouragement: "Every small improvement shows up in your matches.",
	},
	EveningFeedback: EmailCopy{
		Subject:       "{{firstName}}, a nice day of progress",
		Hook:          "We saw you worked on your profile today. Well done!",
		MainMessage:   "Here is what you got done today and the next step forward.",
		Encouragement: "One more day like this and you are there.",
	},
	AiSummaryGenericSummary: "Your profile comes across as sincere and serious. Filling in the missing details will give it the depth good matches look for.",
	ValueTopics: []ValueTopic{
		{
			Subject:       "{{firstName}}, what makes a profile truly stand out",
			Hook:          "A tip from our matchmakers' experience.",
			MainMessage:   "Profiles that tell a small personal story, not just facts, receive far more serious interest.",
			Encouragement: "It is worth refreshing your about section from time to time.",
		},
		{
			Subject:       "{{firstName}}, a good question for a first date",
			Hook:          "Something we learned from thousands of introductions.",
			MainMessage:   "An open question about a meaningful experience opens a real conversation much better than small talk. Try it on your next date.",
			Encouragement: "Genuine curiosity is the greatest charm.",
		},
		{
			Subject:       "{{firstName}}, your profile is a living story",
			Hook:          "Things change, and so do you.",
			MainMessage:   "A small update after a while, a new photo or a line about what is on your mind now, keeps your profile relevant and true.",
			Encouragement: "The best profile is the one that grows with you.",
		},
	},
}
