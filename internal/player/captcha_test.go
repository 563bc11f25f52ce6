package player

import "testing"

func TestCaptchaCorrectAnswerPaysReward(t *testing.T) {
	p := &Player{}
	word := p.IssueCaptcha(500)
	if len(word) != 4 {
		t.Fatalf("challenge word %q", word)
	}

	reward, ok := p.VerifyCaptcha(word)
	if !ok || reward != 500 {
		t.Fatalf("verify = (%d, %v)", reward, ok)
	}
	// The challenge is one-shot.
	if _, ok := p.VerifyCaptcha(word); ok {
		t.Fatal("consumed challenge verified again")
	}
}

func TestCaptchaAttemptsExhaust(t *testing.T) {
	p := &Player{}
	word := p.IssueCaptcha(100)

	for i := 0; i < captchaMaxAttempts; i++ {
		if _, ok := p.VerifyCaptcha("nope"); ok {
			t.Fatalf("wrong answer accepted on attempt %d", i)
		}
	}
	// Budget spent, even the right word no longer pays.
	if _, ok := p.VerifyCaptcha(word); ok {
		t.Fatal("challenge survived exhausted attempts")
	}
}

func TestCaptchaReissueReplacesChallenge(t *testing.T) {
	p := &Player{}
	p.IssueCaptcha(100)
	p.VerifyCaptcha("nope")
	if p.Captcha.Attempts != 1 {
		t.Fatalf("attempts = %d", p.Captcha.Attempts)
	}

	p.IssueCaptcha(200)
	if p.Captcha.RewardExp != 200 {
		t.Fatalf("reward = %d, want 200", p.Captcha.RewardExp)
	}
	if p.Captcha.Attempts != 0 {
		t.Fatalf("attempts = %d after reissue", p.Captcha.Attempts)
	}
}

func TestVerifyCaptchaWithoutChallenge(t *testing.T) {
	p := &Player{}
	if _, ok := p.VerifyCaptcha("anything"); ok {
		t.Fatal("verified with no outstanding challenge")
	}
}
