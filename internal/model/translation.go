// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package model

type Translation struct {
	Welcome    string                 `json:"welcome" form:"welcome"`
	Subtitle   string                 `json:"subtitle" form:"subtitle"`
	Countdown  string                 `json:"countdown" form:"countdown"`
	Login      TranslationLogin       `json:"login" form:"login"`
	Navigation TranslationNavigation  `json:"navigation" form:"navigation"`
	Schedule   TranslationSchedule    `json:"schedule" form:"schedule"`
	RSVPForm   TranslationRSVPForm    `json:"rsvp_form" form:"rsvp_form"`
	Registry   TranslationRegistry    `json:"registry" form:"registry"`
	Error      TranslationError       `json:"error" form:"error"`
	Success    TranslationSuccess     `json:"success" form:"success"`
	FlagImgSrc string                 `json:"flag_img_src" form:"flag_img_src"`
}

type TranslationLogin struct {
	SignIn            string `json:"sign_in" form:"sign_in"`
	FirstName         string `json:"first_name" form:"first_name"`
	LastName          string `json:"last_name" form:"last_name"`
	Password          string `json:"password" form:"password"`
	Enter             string `json:"enter" form:"enter"`
	IncorrectPassword string `json:"incorrect_password" form:"incorrect_password"`
	NoGuestFound      string `json:"no_guest_found" form:"no_guest_found"`
	DidYouMean        string `json:"did_you_mean" form:"did_you_mean"`
}

type TranslationNavigation struct {
	Home     string `json:"home" form:"home"`
	Schedule string `json:"schedule" form:"schedule"`
	RSVP     string `json:"rsvp" form:"rsvp"`
	Registry string `json:"registry" form:"registry"`
	Admin    string `json:"admin" form:"admin"`
	Logout   string `json:"logout" form:"logout"`
}

type TranslationSchedule struct {
	Title     string `json:"title" form:"title"`
	Attire    string `json:"attire" form:"attire"`
	Parking   string `json:"parking" form:"parking"`
	Transport string `json:"transport" form:"transport"`
}

type TranslationRSVPForm struct {
	Title                string `json:"title" form:"title"`
	Instructions         string `json:"instructions" form:"instructions"`
	Allergies            string `json:"allergies" form:"allergies"`
	AllergiesPlaceholder string `json:"allergies_placeholder" form:"allergies_placeholder"`
	PlusOneTitle         string `json:"plus_one_title" form:"plus_one_title"`
	PlusOneInstructions  string `json:"plus_one_instructions" form:"plus_one_instructions"`
	FirstNamePlaceholder string `json:"first_name_placeholder" form:"first_name_placeholder"`
	LastNamePlaceholder  string `json:"last_name_placeholder" form:"last_name_placeholder"`
	Submit               string `json:"submit" form:"submit"`
	Resubmit             string `json:"resubmit" form:"resubmit"`
	MessageSubmitSuccess string `json:"message_submit_success" form:"message_submit_success"`
}

type TranslationRegistry struct {
	Title             string `json:"title" form:"title"`
	Intro             string `json:"intro" form:"intro"`
	TotalAmount       string `json:"total_amount" form:"total_amount"`
	Submit            string `json:"submit" form:"submit"`
	MessageNoChanges  string `json:"message_no_changes" form:"message_no_changes"`
	MessageSubmitted  string `json:"message_submitted" form:"message_submitted"`
}

type TranslationError struct {
	Title   string `json:"title" form:"title"`
	Process string `json:"process" form:"process"`
}

type TranslationSuccess struct {
	Title string `json:"title" form:"title"`
}

type LanguageOption struct {
	Lang       string `json:"lang" form:"lang"`
	FlagImgSrc string `json:"flagImgSrc" form:"flagImgSrc"`
}
