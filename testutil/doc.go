// Package testutil provides test components for the proxy, chiefly an
// in-process whisper-asr-webservice fake:
//
//	fw := testutil.NewFakeWhisper()
//	testutil.T(t).Setup(fw)
//	fw.Reply(testutil.Reply{Status: 404, ContentType: "application/json", Body: `{"detail":"not found"}`})
//	// point the backend client at fw.URL()
package testutil
