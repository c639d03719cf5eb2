// Package twitter wraps the Twitter v1.1 API behind the two capabilities the
// relay needs: "fetch a user's timeline since an id" and "look up a user's
// profile". Wire tweets are mapped to a small internal Post model with the
// media already summarized, so nothing downstream touches API types.
package twitter
