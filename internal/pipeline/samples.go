package pipeline

import "math/rand"

// SampleTickets is a fixed batch of built-in tickets for exercising
// the pipeline without real input. Immutable configuration data.
var SampleTickets = []string{
	`Subject: Billing Error - Charged Twice This Month!

Hello,

I just checked my bank statement and noticed I was charged TWICE for my monthly subscription!
This is completely unacceptable. I've been a loyal customer for over 2 years and this has never
happened before.

I need this fixed IMMEDIATELY and I want a full refund for the duplicate charge. This better
not happen again or I'm canceling my subscription.

Email: sarah.johnson@email.com
Name: Sarah Johnson

Please respond ASAP.

Frustrated,
Sarah Johnson`,
	`Subject: Cannot Login to My Account

Hi Support Team,

I've been trying to log into my account for the past hour but keep getting an "Invalid credentials"
error. I'm 100% sure I'm using the correct password. I even tried the forgot password link but
never received the reset email.

This is preventing me from accessing important documents I need for work today. Can someone please
help me regain access as soon as possible?

Email: michael.chen@techcorp.com
Name: Michael Chen

Thanks,
Michael`,
	`Subject: Feature Request - Dark Mode

Hello!

I absolutely love your application and use it every day. However, I work late nights and the bright
white interface can be quite straining on my eyes. Would it be possible to add a dark mode option?

I know many users have been asking for this feature on your forums. It would be a great quality of
life improvement!

Email: emma.davis@design.io
Name: Emma Davis

Keep up the great work!
Emma`,
	`Subject: Question About Pricing Plans

Hi there,

I'm currently on the Basic plan but considering upgrading to Pro. Could you help me understand the
differences between the two plans? Specifically, I'm interested in knowing about storage limits and
the number of team members I can add.

Also, if I upgrade mid-month, will I be charged the full amount or prorated?

Email: alex.rivera@startup.com
Name: Alex Rivera

Thank you!
Alex`,
	`Subject: Thank You!

Dear Support Team,

I just wanted to take a moment to thank you for the excellent customer service I received yesterday.
Jessica helped me resolve my technical issue within minutes and was incredibly patient and professional.

It's rare to find such dedicated support these days. You have a great team!

Email: olivia.martinez@email.com
Name: Olivia Martinez

Best regards,
Olivia`,
}

// RandomSample picks one sample ticket, used as the default input when
// none is supplied.
func RandomSample() string {
	return SampleTickets[rand.Intn(len(SampleTickets))]
}
