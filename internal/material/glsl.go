package material

import "fmt"

// Uniform names shared by the GLSL below and the raylib binding.
const (
	UniformMovement = "movement"
	UniformScale    = "scale"
	UniformFactor   = "factor"
	UniformWiggle   = "wiggle"
	UniformTime     = "time"
	UniformTexture  = "texture0"
)

// The plane mesh lies in XZ and the model transform turns it upright, so the
// plane's y is -z here and the rotation about the plane's Y axis mixes x with
// mesh y.
const vertexSource = `#version 330

in vec3 vertexPosition;
in vec2 vertexTexCoord;

uniform mat4 mvp;
uniform float time;
uniform float wiggle;

out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertexTexCoord;
    vec3 p = vertexPosition;

    if (wiggle > 0.0) {
        float theta = sin(time - p.z) / 2.0 * wiggle;
        float c = cos(theta);
        float s = sin(theta);
        p = vec3(c * p.x + s * p.y, -s * p.x + c * p.y, p.z);
    }

    gl_Position = mvp * vec4(p, 1.0);
}
`

const fragmentTemplate = `#version 330

in vec2 fragTexCoord;

uniform sampler2D texture0;
uniform vec3 movement;
uniform float scale;
uniform float factor;

out vec4 finalColor;

void main() {
    vec2 uv = fragTexCoord / scale + movement.xy * factor;
    vec4 color = texture(texture0, uv);

    if (color.a < %.4f) discard;
    finalColor = vec4(color.rgb, %.4f);
}
`

// Sources returns the vertex and fragment shader of the layer material.
func Sources() (vs, fs string) {
	return vertexSource, fmt.Sprintf(fragmentTemplate, AlphaCutoff, Opacity)
}
